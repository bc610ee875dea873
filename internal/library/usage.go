package library

// UsageBytes sums the sizes of everything that is or will be stored:
// confirmed entries plus in-flight pending ones. Failed placeholders
// never reached the store and do not count.
func (s *State) UsageBytes() int64 {
	var total int64
	for _, e := range s.entries {
		if e.Lifecycle == Failed {
			continue
		}
		total += e.Book.SizeBytes
	}
	return total
}

// UsageMiB is UsageBytes in mebibytes, for the usage indicator and the
// quota check.
func (s *State) UsageMiB() float64 {
	return float64(s.UsageBytes()) / (1024 * 1024)
}
