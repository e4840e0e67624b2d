package savefile

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ergomake/savefile/pkg/codec"
)

// Location names a physical storage backend. DefaultLocation defers to the
// store's default settings.
type Location int

const (
	DefaultLocation Location = iota
	PersistentPath
	StreamingPath
	AbsolutePath
	KeyValueStore
	ResourcesReadOnly
	Bucket
)

var locationNames = map[Location]string{
	DefaultLocation:   "Default",
	PersistentPath:    "PersistentPath",
	StreamingPath:     "StreamingPath",
	AbsolutePath:      "AbsolutePath",
	KeyValueStore:     "KeyValueStore",
	ResourcesReadOnly: "ResourcesReadOnly",
	Bucket:            "Bucket",
}

func (l Location) String() string {
	if name, ok := locationNames[l]; ok {
		return name
	}

	return "Location(" + strconv.Itoa(int(l)) + ")"
}

func ParseLocation(s string) (Location, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for l, name := range locationNames {
		if strings.ToLower(name) == want {
			return l, nil
		}
	}

	return DefaultLocation, errors.Errorf("unknown location %q", s)
}

func (l Location) MarshalText() ([]byte, error) {
	if _, ok := locationNames[l]; !ok {
		return nil, errors.Errorf("unknown location %d", int(l))
	}

	return []byte(l.String()), nil
}

func (l *Location) UnmarshalText(b []byte) error {
	parsed, err := ParseLocation(string(b))
	if err != nil {
		return err
	}

	*l = parsed
	return nil
}

// Settings control where and how a container is written.
type Settings struct {
	Location Location     `yaml:"location"`
	Format   codec.Format `yaml:"format"`
	Compress bool         `yaml:"compress"`
}

func DefaultSettings() Settings {
	return Settings{Location: PersistentPath, Format: codec.Text, Compress: false}
}
