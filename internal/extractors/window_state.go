package extractors

import (
	"math"

	"dns-analytics/internal/models"
)

// WindowState holds exact, incrementally-updatable aggregate statistics
// over the payloads currently inside one sliding window. Add and Remove
// are exact inverses: removing a payload that was previously added
// returns every field to its prior value.
//
// Removing a payload that is not present violates the multiset invariant
// and is a programming error, not a runtime condition.
type WindowState struct {
	nQueries            int
	uniqueQueries       map[string]int
	nLabels             int
	uniqueLabels        map[string]int
	totalLabelLen       int
	totalUniqueLabelLen int
	totalUniqueQueryLen int
	maxLabelLen         int

	// Byte histogram for entropy: fast path for the structurally safe
	// alphabet [0-9a-zA-Z_-], map for everything else.
	asciiCounts [128]int
	otherCounts map[byte]int
}

func NewWindowState() *WindowState {
	return &WindowState{
		uniqueQueries: make(map[string]int),
		uniqueLabels:  make(map[string]int),
		otherCounts:   make(map[byte]int),
	}
}

// Add folds one payload into the aggregate state.
func (s *WindowState) Add(p *models.Payload) {
	s.nQueries++

	key := p.Key()
	if _, seen := s.uniqueQueries[key]; !seen {
		s.totalUniqueQueryLen += p.EncodedLen
	}
	s.uniqueQueries[key]++

	s.nLabels += len(p.Labels)

	for _, label := range p.Labels {
		s.totalLabelLen += len(label)
		if _, seen := s.uniqueLabels[label]; !seen {
			s.totalUniqueLabelLen += len(label)
		}
		s.uniqueLabels[label]++

		if len(label) > s.maxLabelLen {
			s.maxLabelLen = len(label)
		}

		for i := 0; i < len(label); i++ {
			ch := label[i]
			if safeAlphabet(ch) {
				s.asciiCounts[ch]++
			} else {
				s.otherCounts[ch]++
			}
		}
	}
}

// Remove is the exact inverse of Add for the same payload.
func (s *WindowState) Remove(p *models.Payload) {
	s.nQueries--

	key := p.Key()
	if count, ok := s.uniqueQueries[key]; ok {
		if count <= 1 {
			delete(s.uniqueQueries, key)
			s.totalUniqueQueryLen -= p.EncodedLen
		} else {
			s.uniqueQueries[key] = count - 1
		}
	}

	s.nLabels -= len(p.Labels)

	updateMax := false
	for _, label := range p.Labels {
		s.totalLabelLen -= len(label)

		if count, ok := s.uniqueLabels[label]; ok {
			if count <= 1 {
				delete(s.uniqueLabels, label)
				s.totalUniqueLabelLen -= len(label)

				// The running max only needs recomputation when the last
				// occurrence of a max-length label leaves the window.
				if !updateMax && len(label) == s.maxLabelLen {
					updateMax = true
				}
			} else {
				s.uniqueLabels[label] = count - 1
			}
		}

		for i := 0; i < len(label); i++ {
			ch := label[i]
			if safeAlphabet(ch) {
				s.asciiCounts[ch]--
			} else {
				s.otherCounts[ch]--
			}
		}
	}

	// Maxima rarely drop by more than one per removal: any surviving
	// label of length >= old_max-1 short-circuits; the full scan below
	// keeps the fallback correct in all cases.
	if updateMax {
		max := 0
		for label := range s.uniqueLabels {
			if len(label) >= s.maxLabelLen-1 {
				max = len(label)
				break
			}
			if len(label) > max {
				max = len(label)
			}
		}
		s.maxLabelLen = max
	}
}

// Entropy returns the Shannon entropy in bits over the accumulated byte
// histogram: |sum c*ln(c/n)| / (n*ln2) with n the total label length.
// n == 0 divides by zero and yields NaN, preserved on purpose.
func (s *WindowState) Entropy() float64 {
	n := float64(s.totalLabelLen)
	acc := 0.0
	for _, c := range s.otherCounts {
		if c != 0 {
			acc += float64(c) * math.Log(float64(c)/n)
		}
	}
	for _, c := range s.asciiCounts {
		if c != 0 {
			acc += float64(c) * math.Log(float64(c)/n)
		}
	}
	return math.Abs(acc) / (n * math.Ln2)
}

// NQueries returns the total query count currently in the window.
func (s *WindowState) NQueries() int { return s.nQueries }

// NUniqueQueries returns the number of distinct payloads in the window.
func (s *WindowState) NUniqueQueries() int { return len(s.uniqueQueries) }

// NUniqueLabels returns the number of distinct labels in the window.
func (s *WindowState) NUniqueLabels() int { return len(s.uniqueLabels) }

// NLabels returns the total label count currently in the window.
func (s *WindowState) NLabels() int { return s.nLabels }

// TotalLabelLen returns the summed length of all labels in the window.
func (s *WindowState) TotalLabelLen() int { return s.totalLabelLen }

// TotalUniqueLabelLen returns the summed length of distinct labels.
func (s *WindowState) TotalUniqueLabelLen() int { return s.totalUniqueLabelLen }

// TotalUniqueQueryLen returns the summed encoded length of distinct
// payloads.
func (s *WindowState) TotalUniqueQueryLen() int { return s.totalUniqueQueryLen }

// MaxLabelLen returns the length of the longest label in the window.
func (s *WindowState) MaxLabelLen() int { return s.maxLabelLen }

func safeAlphabet(ch byte) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch == '-' || ch == '_':
		return true
	default:
		return false
	}
}
