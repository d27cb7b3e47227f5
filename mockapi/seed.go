package mockapi

import (
	"fmt"
	"strings"

	"github.com/apitests/reqres-contract-tests/apidef"
)

var seedNames = [][2]string{
	{"George", "Bluth"},
	{"Janet", "Weaver"},
	{"Emma", "Wong"},
	{"Eve", "Holt"},
	{"Charles", "Morris"},
	{"Tracey", "Ramos"},
	{"Michael", "Lawson"},
	{"Lindsay", "Ferguson"},
	{"Tobias", "Funke"},
	{"Byron", "Fields"},
	{"George", "Edwards"},
	{"Rachel", "Howell"},
}

func seedUsers() []apidef.UserRecord {
	users := make([]apidef.UserRecord, 0, len(seedNames))
	for i, n := range seedNames {
		id := i + 1
		users = append(users, apidef.UserRecord{
			ID:        id,
			Email:     strings.ToLower(n[0]+"."+n[1]) + "@reqres.in",
			FirstName: n[0],
			LastName:  n[1],
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		})
	}
	return users
}
