package game

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Timings holds the stage window durations. The betting window is
// longer than the initial start gate, and new bets are refused during
// the lock buffer at the tail of a betting window.
type Timings struct {
	StartStageSeconds   uint32 `yaml:"startStageSeconds"`
	BettingStageSeconds uint32 `yaml:"bettingStageSeconds"`
	LockBufferSeconds   uint32 `yaml:"lockBufferSeconds"`
}

// DefaultTimings are used when no config file is given.
func DefaultTimings() Timings {
	return Timings{
		StartStageSeconds:   30,
		BettingStageSeconds: 60,
		LockBufferSeconds:   5,
	}
}

func (t Timings) stageDuration(stage Stage) time.Duration {
	if stage == StageBetting {
		return time.Duration(t.BettingStageSeconds) * time.Second
	}
	return time.Duration(t.StartStageSeconds) * time.Second
}

func (t Timings) lockBuffer() time.Duration {
	return time.Duration(t.LockBufferSeconds) * time.Second
}

// ParseTimingsConfig reads stage timings from a YAML file. Fields left
// at zero fall back to the defaults.
func ParseTimingsConfig(timingsFile string) (Timings, error) {
	bytes, err := os.ReadFile(timingsFile)
	if err != nil {
		return Timings{}, errors.Wrap(err, fmt.Sprintf("Error reading timings config file [%s]", timingsFile))
	}

	data := DefaultTimings()
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Timings{}, errors.Wrap(err, fmt.Sprintf("Error parsing timings YAML file [%s]", timingsFile))
	}

	if data.StartStageSeconds == 0 {
		data.StartStageSeconds = DefaultTimings().StartStageSeconds
	}
	if data.BettingStageSeconds == 0 {
		data.BettingStageSeconds = DefaultTimings().BettingStageSeconds
	}

	return data, nil
}
