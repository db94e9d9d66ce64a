// Package scrollspy tracks which page section is active for navigation
// highlighting.
//
// An anchor line sits at a fixed fraction of the viewport height (45% by
// default). The active section is the first one whose bounds, shrunk by a
// safe zone on both edges, contain the anchor. When none does, the section
// with an edge closest to the anchor wins, earliest registration first.
//
// Measurement is driven by scroll and resize events and coalesced to one
// update per animation frame:
//
//	reg := scrollspy.NewRegistry()
//	reg.Register("about", aboutEl)
//	reg.Register("projects", projectsEl)
//
//	t := scrollspy.New(reg, window, scrollspy.Options{
//	    Scheduler: frame.NewTicker(0),
//	    OnChange:  func(key string) { nav.Highlight(key) },
//	})
//	teardown := t.Attach(window)
//	defer teardown()
package scrollspy
