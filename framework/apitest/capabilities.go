package apitest

// Capabilities is a set of optional behaviors that the service under test is declared to
// support. Tests that depend on one of them call T.RequireCapability.
type Capabilities []string

func (c Capabilities) Has(name string) bool {
	for _, value := range c {
		if value == name {
			return true
		}
	}
	return false
}

func (c Capabilities) HasAll(names ...string) bool {
	for _, name := range names {
		if !c.Has(name) {
			return false
		}
	}
	return true
}

// Missing returns every name in all that is not in c, preserving the order of all.
func (c Capabilities) Missing(all []string) []string {
	var ret []string
	for _, name := range all {
		if !c.Has(name) {
			ret = append(ret, name)
		}
	}
	return ret
}
