package feedback

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

// SampleRate is the rate every sound is buffered and played at.
const SampleRate beep.SampleRate = 44100

// Format is the buffer format of every sound.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// Player starts playing s and returns without waiting for it to finish.
type Player func(s beep.Streamer)

// Speaker initialises the default audio device and returns a Player for it.
// It can only be called once per process.
func Speaker() (Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return nil, fmt.Errorf("failed to initialise speaker: %w", err)
	}
	return func(s beep.Streamer) { speaker.Play(s) }, nil
}

// Volume reports the playback volume in [0, 1].
type Volume func() float64

// MediaVolume scales playback to a media stream volume of current out of max steps.
func MediaVolume(current, max int) Volume {
	return func() float64 {
		if max <= 0 || current <= 0 {
			return 0
		}
		if current >= max {
			return 1
		}
		return float64(current) / float64(max)
	}
}

// Tone synthesises a sine wave at freq Hz lasting d. The first and last few
// milliseconds fade so the speaker does not click.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	const amplitude = 0.5
	total := sr.N(d)
	fade := sr.N(5 * time.Millisecond)
	if fade*2 > total {
		fade = total / 2
	}

	var pos int
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for n = 0; n < len(samples) && pos < total; n++ {
			gain := amplitude
			if fade > 0 {
				if pos < fade {
					gain *= float64(pos) / float64(fade)
				} else if rest := total - pos - 1; rest < fade {
					gain *= float64(rest) / float64(fade)
				}
			}
			v := gain * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[n][0] = v
			samples[n][1] = v
			pos++
		}
		return n, true
	})
}

// Sounds holds one buffered sound per direction.
type Sounds struct {
	Increment *beep.Buffer
	Decrement *beep.Buffer
}

// DefaultSounds returns a short high chirp for increments and a lower, longer one for decrements.
func DefaultSounds() Sounds {
	return Sounds{
		Increment: buffer(Tone(SampleRate, 880, 70*time.Millisecond)),
		Decrement: buffer(Tone(SampleRate, 440, 90*time.Millisecond)),
	}
}

// LoadSounds decodes the given files, keeping the default tone wherever a path is empty.
func LoadSounds(incrementFile, decrementFile string) (Sounds, error) {
	sounds := DefaultSounds()
	if incrementFile != "" {
		b, err := LoadFile(incrementFile)
		if err != nil {
			return sounds, err
		}
		sounds.Increment = b
	}
	if decrementFile != "" {
		b, err := LoadFile(decrementFile)
		if err != nil {
			return sounds, err
		}
		sounds.Decrement = b
	}
	return sounds, nil
}

// LoadFile decodes an .mp3 or .wav file into a buffer at SampleRate.
func LoadFile(name string) (*beep.Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound: %w", err)
	}

	var s beep.StreamSeekCloser
	var format beep.Format
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported sound format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if format.SampleRate != SampleRate {
		src = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	b := buffer(src)
	if err = s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return b, nil
}

func buffer(s beep.Streamer) *beep.Buffer {
	b := beep.NewBuffer(Format)
	b.Append(s)
	return b
}

// NewSound plays sounds through play, scaled by volume at the moment of each change.
func NewSound(log *zap.SugaredLogger, play Player, volume Volume, sounds Sounds) *Sound {
	return &Sound{
		log:    log,
		play:   play,
		volume: volume,
		sounds: [...]*beep.Buffer{Increment: sounds.Increment, Decrement: sounds.Decrement},
	}
}

type Sound struct {
	log    *zap.SugaredLogger
	play   Player
	volume Volume
	sounds [2]*beep.Buffer
}

func (s *Sound) Trigger(_ context.Context, d Direction) {
	if d != Increment && d != Decrement {
		return
	}
	buf := s.sounds[d]
	if buf == nil || buf.Len() == 0 {
		return
	}

	vol := s.volume()
	if vol <= 0 {
		s.log.Debugf("%s sound muted", d)
		return
	}
	if vol > 1 {
		vol = 1
	}

	s.play(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   math.Log2(vol),
	})
}
