package validation

// Collector accumulates findings for one validation unit.
//
// Collectors are not safe for concurrent use. Sub-collectors created with
// At share the finding list of their parent and only differ in location.
type Collector struct {
	path     Path
	findings *Findings
}

// NewCollector returns an empty collector rooted at path.
func NewCollector(path Path) *Collector {
	return &Collector{path: path.Clone(), findings: new(Findings)}
}

// Path returns the location of the collector.
func (c *Collector) Path() Path {
	return c.path.Clone()
}

// Key returns a sub-collector located at the given mapping key.
func (c *Collector) Key(key string) *Collector {
	return &Collector{path: c.path.Key(key), findings: c.findings}
}

// Index returns a sub-collector located at the given sequence index.
func (c *Collector) Index(i int) *Collector {
	return &Collector{path: c.path.Index(i), findings: c.findings}
}

// Add records f at the collector location unless f already carries a path.
// A nil finding is ignored so checks can be passed through directly. Add
// reports whether a finding was recorded.
func (c *Collector) Add(f *Finding) bool {
	if f == nil {
		return false
	}
	if len(f.Path) == 0 {
		f = f.At(c.path)
	}
	*c.findings = append(*c.findings, *f)
	return true
}

// AddAll records every finding of fs. Findings without a location are placed
// at the collector location.
func (c *Collector) AddAll(fs Findings) {
	for i := range fs {
		c.Add(&fs[i])
	}
}

// Len returns the number of recorded findings.
func (c *Collector) Len() int {
	return len(*c.findings)
}

// HasFatal reports whether any recorded finding is fatal.
func (c *Collector) HasFatal() bool {
	return c.findings.HasFatal()
}

// Findings returns the deduplicated findings recorded so far.
func (c *Collector) Findings() Findings {
	return Dedupe(*c.findings)
}
