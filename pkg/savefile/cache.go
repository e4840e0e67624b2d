package savefile

import "github.com/ergomake/savefile/pkg/container"

// ReadCache holds the last container loaded, keyed by the location and
// physical locator it was read from. It keeps a single entry.
type ReadCache struct {
	key       string
	container *container.Container
}

func NewReadCache() *ReadCache {
	return &ReadCache{}
}

func cacheKey(location Location, physical string) string {
	return location.String() + "|" + physical
}

func (rc *ReadCache) Get(key string) (*container.Container, bool) {
	if rc.container == nil || rc.key != key {
		return nil, false
	}

	return rc.container, true
}

// Put replaces whatever entry was cached.
func (rc *ReadCache) Put(key string, c *container.Container) {
	rc.key = key
	rc.container = c
}

func (rc *ReadCache) Clear() {
	rc.key = ""
	rc.container = nil
}
