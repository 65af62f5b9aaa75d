package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

func writeWAV(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(2205), format); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
}

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol float64
		min float64
		max float64
	}{
		{1.0, -0.01, 0.01},
		{0.5, -6.1, -5.9},
		{0.25, -12.1, -11.9},
		{0.0, -200, -90},
	}

	for _, tt := range tests {
		db := volumeToDb(tt.vol)
		if db < tt.min || db > tt.max {
			t.Errorf("volumeToDb(%f) = %f, want between %f and %f", tt.vol, db, tt.min, tt.max)
		}
	}
}

func TestVolumeClamped(t *testing.T) {
	p := New(2)
	if p.Volume() != 1 {
		t.Errorf("volume = %f, want 1 (clamped)", p.Volume())
	}
	p.SetVolume(-1)
	if p.Volume() != 0 {
		t.Errorf("volume = %f, want 0 (clamped)", p.Volume())
	}
	p.SetVolume(0.4)
	if p.Volume() != 0.4 {
		t.Errorf("volume = %f, want 0.4", p.Volume())
	}
}

func TestLoadCues(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "click.wav"))

	p := New(1)
	if err := p.LoadCues(dir, map[string]string{"legs_shown": "click.wav"}); err != nil {
		t.Fatalf("LoadCues: %v", err)
	}
	if !p.HasCue("legs_shown") {
		t.Error("expected legs_shown cue")
	}
	if p.HasCue("load_failed") {
		t.Error("unexpected load_failed cue")
	}
}

func TestLoadCuesRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "noise.wav"), []byte("not a wav"), 0644); err != nil {
		t.Fatal(err)
	}

	p := New(1)
	if err := p.LoadCues(dir, map[string]string{"x": "noise.wav"}); err == nil {
		t.Error("expected decode error")
	}
	if err := p.LoadCues(dir, map[string]string{"y": "missing.wav"}); err == nil {
		t.Error("expected read error")
	}
	if p.HasCue("x") || p.HasCue("y") {
		t.Error("bad cues must not be registered")
	}
}

func TestPlayWithoutSpeaker(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "click.wav"))

	p := New(1)
	if err := p.LoadCues(dir, map[string]string{"legs_shown": "click.wav"}); err != nil {
		t.Fatal(err)
	}
	if p.Play("legs_shown") {
		t.Error("play before Init should not queue anything")
	}
	if p.Play("unknown") {
		t.Error("unknown cue should not play")
	}
}
