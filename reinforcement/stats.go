package reinforcement

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats accumulates per-episode training results. It is owned by the estimator.
type Stats struct {
	Episodes    int
	Successes   int
	Truncations int
	Epsilon     float64
	Returns     []float64
	Lengths     []float64
	// TDErrors holds the mean absolute temporal difference of each episode.
	TDErrors []float64
}

func (s *Stats) record(ep *Episode, meanTD, epsilon float64) {
	s.Episodes++
	if ep.Terminated {
		s.Successes++
	}
	if ep.Truncated {
		s.Truncations++
	}
	s.Epsilon = epsilon
	s.Returns = append(s.Returns, ep.Return)
	s.Lengths = append(s.Lengths, float64(ep.Len()))
	s.TDErrors = append(s.TDErrors, meanTD)
}

// Recent is the mean return and length over the last window episodes.
func (s *Stats) Recent(window int) (meanReturn, meanLength float64) {
	from := len(s.Returns) - window
	if from < 0 {
		from = 0
	}
	if from == len(s.Returns) {
		return
	}
	meanReturn = stat.Mean(s.Returns[from:], nil)
	meanLength = stat.Mean(s.Lengths[from:], nil)
	return
}

func (s *Stats) String() string {
	meanReturn, meanLength := s.Recent(DEFAULT_WINDOW)
	return fmt.Sprintf(
		"episodes: %d  successes: %d  truncations: %d  epsilon: %.3f  return(%d): %.2f  length(%d): %.1f",
		s.Episodes, s.Successes, s.Truncations, s.Epsilon,
		DEFAULT_WINDOW, meanReturn, DEFAULT_WINDOW, meanLength)
}

// Summary describes a finished training run.
type Summary struct {
	Episodes    int
	Successes   int
	Truncations int
	MeanReturn  float64
	StdReturn   float64
	MeanLength  float64
	// Moving averages over Window consecutive episodes.
	Window         int
	MovingReturns  []float64
	MovingLengths  []float64
	MovingTDErrors []float64
	// Table is the learned Q-table.
	Table *QTable
}

func (s *Stats) summarize(window int, table *QTable) *Summary {
	summary := &Summary{
		Episodes:       s.Episodes,
		Successes:      s.Successes,
		Truncations:    s.Truncations,
		Window:         window,
		MovingReturns:  MovingAverages(s.Returns, window),
		MovingLengths:  MovingAverages(s.Lengths, window),
		MovingTDErrors: MovingAverages(s.TDErrors, window),
		Table:          table,
	}
	if len(s.Returns) > 0 {
		summary.MeanReturn, summary.StdReturn = stat.MeanStdDev(s.Returns, nil)
		summary.MeanLength = stat.Mean(s.Lengths, nil)
		if math.IsNaN(summary.StdReturn) {
			summary.StdReturn = 0
		}
	}
	return summary
}

// SuccessRate is the fraction of episodes that found the treasure.
func (s *Summary) SuccessRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Episodes)
}

// MovingAverages returns the mean of every full window of xs, in order. A window larger
// than xs is shrunk to len(xs).
func MovingAverages(xs []float64, window int) []float64 {
	if len(xs) == 0 || window < 1 {
		return nil
	}
	if window > len(xs) {
		window = len(xs)
	}
	avgs := make([]float64, 0, len(xs)-window+1)
	for i := 0; i+window <= len(xs); i++ {
		avgs = append(avgs, stat.Mean(xs[i:i+window], nil))
	}
	return avgs
}
