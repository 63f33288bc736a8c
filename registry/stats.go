package registry

// GroupStats aggregates entries sharing an owner or MIME type.
type GroupStats struct {
	Count int
	Bytes int64
}

// Stats is a pure aggregation over active entries.
type Stats struct {
	TotalCount int
	TotalBytes int64
	PerOwner   map[string]GroupStats
	PerMIME    map[string]GroupStats
}

// Stats aggregates all active entries.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		PerOwner: make(map[string]GroupStats),
		PerMIME:  make(map[string]GroupStats),
	}
	for _, e := range r.entries {
		if !e.Active {
			continue
		}
		s.TotalCount++
		s.TotalBytes += e.Size

		po := s.PerOwner[e.Owner]
		po.Count++
		po.Bytes += e.Size
		s.PerOwner[e.Owner] = po

		pm := s.PerMIME[e.MIME]
		pm.Count++
		pm.Bytes += e.Size
		s.PerMIME[e.MIME] = pm
	}
	return s
}

// StatsFor aggregates the active entries of a single owner.
func (r *Registry) StatsFor(owner string) GroupStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var g GroupStats
	for _, h := range r.owners[owner] {
		if e, ok := r.entries[h]; ok && e.Active {
			g.Count++
			g.Bytes += e.Size
		}
	}
	return g
}
