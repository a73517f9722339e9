package seed

// Entry is one bookmark to import.
type Entry struct {
	URL  string   `yaml:"url"`
	Tags []string `yaml:"tags"`
}

// UserSeed groups the bookmarks imported for one user id.
type UserSeed struct {
	User      string  `yaml:"user"`
	Bookmarks []Entry `yaml:"bookmarks"`
}

// File is the root structure of the seed YAML:
//
//	- user: alice
//	  bookmarks:
//	    - url: go.dev/doc
//	      tags: [golang]
type File []UserSeed
