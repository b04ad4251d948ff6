package profile

import "sort"

// Profile defines export parameters for a target use.
type Profile struct {
	Name    string
	Format  string // encoder format name
	Quality int    // compression quality 1-100; ignored by lossless formats
}

// DefaultName is the profile used when none is requested.
const DefaultName = "original"

// Built-in profiles.
var profiles = map[string]Profile{
	"original": {
		Name:    "original",
		Format:  "jpeg",
		Quality: 100,
	},
	"web": {
		Name:    "web",
		Format:  "jpeg",
		Quality: 82,
	},
	"webp": {
		Name:    "webp",
		Format:  "webp",
		Quality: 80,
	},
	"avif": {
		Name:    "avif",
		Format:  "avif",
		Quality: 70,
	},
	"archive": {
		Name:    "archive",
		Format:  "png",
		Quality: 100,
	},
}

// Get returns a profile by name. Falls back to the default profile if
// unknown, keeping the requested name.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name
	return p
}

// Lookup returns a profile by name and whether it exists.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Names lists the built-in profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
