package siteaudit_test

import (
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   siteaudit.LinkState
	}{
		{0, siteaudit.LinkBroken},
		{199, siteaudit.LinkBroken},
		{200, siteaudit.LinkOK},
		{204, siteaudit.LinkOK},
		{301, siteaudit.LinkOK},
		{399, siteaudit.LinkOK},
		{400, siteaudit.LinkBroken},
		{404, siteaudit.LinkBroken},
		{500, siteaudit.LinkBroken},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, siteaudit.ClassifyStatus(tt.status), "status %d", tt.status)
	}
}

func TestLinkResult(t *testing.T) {
	t.Parallel()

	t.Run("ambiguous when broken with unknown status", func(t *testing.T) {
		t.Parallel()

		r := &siteaudit.LinkResult{State: siteaudit.LinkBroken, Status: siteaudit.StatusUnknown}

		assert.True(t, r.IsBroken())
		assert.True(t, r.IsAmbiguous())
	})

	t.Run("definitive failure is not ambiguous", func(t *testing.T) {
		t.Parallel()

		r := &siteaudit.LinkResult{State: siteaudit.LinkBroken, Status: 404}

		assert.True(t, r.IsBroken())
		assert.False(t, r.IsAmbiguous())
	})

	t.Run("ok link is neither", func(t *testing.T) {
		t.Parallel()

		r := &siteaudit.LinkResult{State: siteaudit.LinkOK, Status: 200}

		assert.False(t, r.IsBroken())
		assert.False(t, r.IsAmbiguous())
	})

	t.Run("asset type defaults to unknown", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "unknown", (&siteaudit.LinkResult{}).AssetType())
		assert.Equal(t, "image/png", (&siteaudit.LinkResult{ContentType: "image/png"}).AssetType())
	})
}
