// Package state persists the bits of a session worth restoring on the next start:
// background color, overlay visibility and where the camera was.
package state

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the persisted session. The file holds one value per line in field order:
// clear color r g b, overlay flag (0/1), camera position x y z, camera front x y z.
type State struct {
	ClearColor     mgl32.Vec3
	OverlayVisible bool
	CameraPosition mgl32.Vec3
	CameraFront    mgl32.Vec3
}

const valueCount = 10

// ErrNotFinite rejects NaN and infinite values, which would poison the camera
var ErrNotFinite = errors.New("value is not finite")

// Default is a black background with the camera three units back looking down -Z
func Default() State {
	return State{
		CameraPosition: mgl32.Vec3{0, 0, 3},
		CameraFront:    mgl32.Vec3{0, 0, -1},
	}
}

// Read parses a state file. Values may be separated by any whitespace.
func Read(r io.Reader) (State, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var v [valueCount]float32
	for i := range v {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return State{}, err
			}
			return State{}, fmt.Errorf("state: expected %d values, got %d", valueCount, i)
		}
		f, err := strconv.ParseFloat(sc.Text(), 32)
		if err != nil {
			return State{}, fmt.Errorf("state: value %d: %w", i, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return State{}, fmt.Errorf("state: value %d: %w", i, ErrNotFinite)
		}
		v[i] = float32(f)
	}

	return State{
		ClearColor:     mgl32.Vec3{v[0], v[1], v[2]},
		OverlayVisible: v[3] != 0,
		CameraPosition: mgl32.Vec3{v[4], v[5], v[6]},
		CameraFront:    mgl32.Vec3{v[7], v[8], v[9]},
	}, nil
}

// Write serializes s in the file format Read accepts
func (s State) Write(w io.Writer) error {
	overlay := 0
	if s.OverlayVisible {
		overlay = 1
	}
	bw := bufio.NewWriter(w)
	values := []string{
		fmtFloat(s.ClearColor[0]), fmtFloat(s.ClearColor[1]), fmtFloat(s.ClearColor[2]),
		strconv.Itoa(overlay),
		fmtFloat(s.CameraPosition[0]), fmtFloat(s.CameraPosition[1]), fmtFloat(s.CameraPosition[2]),
		fmtFloat(s.CameraFront[0]), fmtFloat(s.CameraFront[1]), fmtFloat(s.CameraFront[2]),
	}
	for _, v := range values {
		if _, err := bw.WriteString(v + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func fmtFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Load reads path, returning Default when the file is missing or malformed
func Load(path string) State {
	f, err := os.Open(path)
	if err != nil {
		return Default()
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return Default()
	}
	return s
}

// Save writes s to path, replacing it atomically so an interrupted save leaves the old file
func Save(path string, s State) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create state file: %w", err)
	}
	werr := s.Write(f)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace state file: %w", err)
	}
	return nil
}
