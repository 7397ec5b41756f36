// Package match simulates biometric search. Confidence scores are random
// draws, not the output of a matcher; Simulator is the seam where a real
// matcher would plug in.
package match

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/your-org/disasterbio/internal/apperr"
	"github.com/your-org/disasterbio/internal/models"
)

type Mode string

const (
	ModeFingerprint Mode = "fingerprint"
	ModeFace        Mode = "face"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFingerprint, ModeFace:
		return Mode(s), nil
	}
	return "", apperr.Field(apperr.KindInvalidField, "mode", fmt.Sprintf("unknown scan mode %q", s))
}

// confidenceRange is the inclusive band each mode draws from.
func confidenceRange(m Mode) (lo, hi int) {
	if m == ModeFace {
		return 75, 99
	}
	return 70, 99
}

type Result struct {
	Record     models.VictimRecord `json:"record"`
	Confidence int                 `json:"confidence"`
	Band       Band                `json:"band"`
	Mode       Mode                `json:"mode"`
}

type Simulator interface {
	Scan(ctx context.Context, mode Mode, records []models.VictimRecord) (Result, error)
}

// RandomSimulator picks a uniformly random record and a uniformly random
// confidence within the mode's band.
type RandomSimulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSimulator(rng *rand.Rand) *RandomSimulator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomSimulator{rng: rng}
}

func (s *RandomSimulator) Scan(ctx context.Context, mode Mode, records []models.VictimRecord) (Result, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return Result{}, apperr.New(apperr.KindEmptyCollection, "no records to match against")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	lo, hi := confidenceRange(mode)

	s.mu.Lock()
	pick := records[s.rng.IntN(len(records))]
	confidence := lo + s.rng.IntN(hi-lo+1)
	s.mu.Unlock()

	return Result{
		Record:     pick.Clone(),
		Confidence: confidence,
		Band:       BandFor(confidence),
		Mode:       mode,
	}, nil
}

// Band is the display severity of a confidence value.
type Band string

const (
	BandSuccess Band = "success"
	BandWarning Band = "warning"
	BandDanger  Band = "danger"
)

func BandFor(confidence int) Band {
	switch {
	case confidence >= 90:
		return BandSuccess
	case confidence >= 75:
		return BandWarning
	default:
		return BandDanger
	}
}

// PendingMessage is the notification shown while a scan of mode m runs.
func (m Mode) PendingMessage() string {
	if m == ModeFace {
		return "Processing facial recognition..."
	}
	return "Scanning fingerprint..."
}

// Message is the notification shown when the scan completes.
func (r Result) Message() string {
	if r.Mode == ModeFace {
		return fmt.Sprintf("Face match found with %d%% confidence", r.Confidence)
	}
	return fmt.Sprintf("Match found with %d%% confidence", r.Confidence)
}
