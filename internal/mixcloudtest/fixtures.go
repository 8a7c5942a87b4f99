package mixcloudtest

import (
	"strings"
	"time"

	"github.com/jaki95/mixcloud/internal/domain"
	"github.com/jaki95/mixcloud/internal/tracklist"
)

var (
	AphexTwin = domain.Artist{Key: "aphex-twin", Name: "Aphex Twin"}
	Spartacus = domain.User{Key: "spartacus", Name: "Spartacus"}
)

const partyTimeTracklist = `
   0 | Samurai (12" Mix)              | Jazztronik
 416 | Refresher                      | Time of your life
 716 | My time (feat. Crystal Waters) | Dutch
1061 | Definition of House            | Minimal Funk
1500 | I dont know                    | Mint Royale
1763 | Thrill Her                     | Michael Jackson
2123 | Happy (feat.Charlise)          | Elio Isola
2442 | Dancin                         | Erick Morillo et al
2738 | All in my head                 | Kosheen
`

const lambianceTracklist = `
 10 | As Serious As Your Life                     | Four Tet
 20 | Dynamic Symmetry                            | BT
 30 | Vessel                                      | Jon Hopkins
 40 | Vordhosbn                                   | Aphex Twin
 50 | Colour Eye                                  | Jon Hopkins
 60 | Flite                                       | The Cinematic Orchestra
 70 | Altibzz                                     | Autechre
 80 | Untitled [SAW2 CD1 Track1] (Four Tet remix) | Aphex Twin
 90 | Angelica                                    | Lamb
100 | Quixotic                                    | Spartacus
110 | Monday - Paracetamol                        | Ulrich Schnauss
120 | Aquarius                                    | Boards of Canada
130 | Channel 1 Suite                             | The Cinematic Orchestra
`

// PartyTime returns a nine-section cloudcast by Spartacus.
func PartyTime() *domain.Cloudcast {
	return domain.NewCloudcast(domain.CloudcastInfo{
		Key:         "party-time",
		Name:        "Party Time",
		Sections:    mustParse(partyTimeTracklist),
		Tags:        []string{"Funky house", "Funk", "Soul"},
		Description: "Bla bla",
		User:        Spartacus,
		Created:     time.Date(2009, 8, 2, 16, 55, 1, 0, time.UTC),
	})
}

// Lambiance returns a thirteen-section cloudcast by Spartacus.
func Lambiance() *domain.Cloudcast {
	return domain.NewCloudcast(domain.CloudcastInfo{
		Key:         "lambiance",
		Name:        "L'ambiance",
		Sections:    mustParse(lambianceTracklist),
		Tags:        []string{"Idm", "Originals", "Ambient"},
		Description: "Bla bla bla",
		User:        Spartacus,
		Created:     time.Date(2010, 3, 11, 21, 53, 8, 0, time.UTC),
	})
}

func mustParse(table string) []domain.Section {
	sections, err := tracklist.ParseTable(strings.NewReader(table))
	if err != nil {
		panic(err)
	}
	return sections
}
