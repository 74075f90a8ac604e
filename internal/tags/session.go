package tags

// Session is the per-build state of the plugin. It is reset at the start of
// every files phase.
type Session struct {
	previous  string // Hash of the page found on disk before this pass
	published string // Hash of the page this pass registered
	records   int
	groups    []string
}

// Begin starts a pass, remembering the hash of the page already on disk.
func (s *Session) Begin(previous string) {
	*s = Session{previous: previous}
}

// Publish records the page registered with the pipeline.
func (s *Session) Publish(hash string, records int, groups []string) {
	s.published = hash
	s.records = records
	s.groups = groups
}

// Previous returns the hash of the page that existed before this pass.
func (s *Session) Previous() string { return s.previous }

// Published returns the hash of the page registered in this pass.
func (s *Session) Published() string { return s.published }

// Records returns the number of records behind the published page.
func (s *Session) Records() int { return s.records }

// Groups returns the tag names on the published page.
func (s *Session) Groups() []string { return s.groups }

// Reconcile hashes content and reports whether it differs from previous.
func Reconcile(previous string, content []byte) (hash string, changed bool) {
	hash = ContentHash(content)
	return hash, hash != previous
}
