package main

// defaultDomains is audited when no domains are given on the command line or
// in the configuration file. It contains a duplicate entry; the list is
// deduplicated when loaded.
var defaultDomains = []string{
	"http://aatmdeepvidyalaya.com",
	"http://akcschool.in",
	"http://akshatinternationalujjain.com",
	"http://alpineujjain.com",
	"http://anandiacademy.com",
	"http://automation.nitiraj.net",
	"http://bafnalaw.com",
	"http://blog.eschoolapp.in",
	"http://blogsbysukhveer.com",
	"http://bpworldschool.com",
	"http://brainworkspreschool.com",
	"http://carmelmanasa.com",
	"http://dgagrawalschool.com",
	"http://dgagrawalschoolcpd.in",
	"http://dgaglobal.in",
	"http://drmpsfaridpur.in",
	"http://dwpsdhar.com",
	"http://egrapublicschool.in",
	"http://eschoolapp.in",
	"http://geniusglobalschool.co.in",
	"http://gihshyd.com",
	"http://gurukulvbs.com",
	"http://giridharimurtisculpture.com",
	"http://tejashri.dhanuka.info",
	"http://hgil.in",
	"http://himalayaintercollege.com",
	"http://idcards.eschoolapp.in",
	"http://ijhacademy.com",
	"http://ipropertymanagement.in",
	"http://ishaan.dhanuka.info",
	"http://jollymemorialmissionschoolujjain.com",
	"http://jupiterinternationalschool.com",
	"http://kadambinichildrensacademy.com",
	"http://kashievents.com",
	"http://keninternationalschool.in",
	"http://kidsgurukul.com",
	"http://ksfoods.org",
	"http://laxmicotspin.com",
	"http://ltedcollege.org",
	"http://masterthemarket.in",
	"http://matematikaclasses.com",
	"http://mrsoftwares.in",
	"http://muskanschool.in",
	"http://natkhatkids.in",
	"http://neuronlabsschool.org",
	"http://nitiraj.net",
	"http://npsindore.edu.in",
	"https://pragyaschoolgulabpura.com",
	"http://pragyacollege.com",
	"http://pragyaschool.com",
	"http://premghan.com",
	"http://pumpkinbox.in",
	"http://rainbow.gihshyd.com",
	"http://rainbowindiaschool.in",
	"http://ranibhabani.com",
	"http://revatiorganics.in",
	"http://rpsajmer.co.in",
	"http://sairamintschool.com",
	"http://saischooleducation.com",
	"http://scsapp.in",
	"http://sdinternational.co.in",
	"http://sdpskushinagar.com",
	"http://seminar.learnatijh.com",
	"http://semsgrp.in",
	"http://shamgoldenacademy.com",
	"http://shramdoot.in",
	"http://steppingstonesblp.com",
	"http://stthomasschooldhakuakhana.org",
	"http://svmacademy.co.in",
	"http://tejashri.dhanuka.info",
	"http://thecrescentschool.co.in",
	"http://theglobalchamps.com",
	"http://thelegendschool.in",
	"http://treehousehighschool.com",
	"http://treehouselifeskills.com",
	"http://treehouseonline.in",
	"http://treehouseplaygroup.net",
	"http://uipsujjain.com",
	"http://universal-arts.in",
	"http://wp.eschoolapp.in",
	"http://yashgroupofinstitutes.org",
	"http://youngartist.in",
}
