package mocks

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)

	if len(data) != 100 {
		t.Errorf("expected 100 bars, got %d", len(data))
	}

	for i, d := range data {
		if d.ID != int64(i+1) {
			t.Errorf("expected id %d at index %d, got %d", i+1, i, d.ID)
		}

		if i > 0 && d.Time.Sub(data[i-1].Time) != config.Interval {
			t.Errorf("unexpected interval at index %d", i)
		}

		if d.BidLow <= 0 || d.BidHigh < d.BidLow || d.BidHigh < d.BidClose || d.BidLow > d.BidClose {
			t.Errorf("invalid bid prices at index %d: H=%f L=%f C=%f", i, d.BidHigh, d.BidLow, d.BidClose)
		}

		if d.AskClose <= d.BidClose {
			t.Errorf("ask %f not above bid %f at index %d", d.AskClose, d.BidClose, i)
		}

		if d.Volume <= 0 {
			t.Errorf("expected positive volume at index %d, got %d", i, d.Volume)
		}
	}
}

func TestDataGenerator_ZeroVolume(t *testing.T) {
	gen := NewDataGenerator(7)
	config := DefaultConfig()
	config.Count = 30
	config.ZeroVolumeEvery = 10

	data := gen.Generate(config)

	zero := 0
	for _, d := range data {
		if d.Volume == 0 {
			zero++
		}
	}

	if zero != 3 {
		t.Errorf("expected 3 bars without volume, got %d", zero)
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(42).Generate(config)
	data3 := NewDataGenerator(123).Generate(config)

	same := 0
	for i := range data1 {
		if data1[i] != data2[i] {
			t.Errorf("data not reproducible at index %d", i)
		}

		if data1[i].BidClose == data3[i].BidClose {
			same++
		}
	}

	if same == len(data1) {
		t.Error("different seeds produced identical data")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Count != 10000 {
		t.Errorf("expected default count 10000, got %d", config.Count)
	}

	if config.Interval != time.Minute {
		t.Errorf("expected default interval 1m, got %v", config.Interval)
	}

	if err := EURUSD().Validate(); err != nil {
		t.Errorf("expected valid symbol, got %v", err)
	}
}

func TestWriteCandlesRejectsUnknownExtension(t *testing.T) {
	err := WriteCandles(filepath.Join(t.TempDir(), "bars.txt"), Generate10K()[:1])
	if err == nil {
		t.Error("expected an error for a .txt file")
	}
}
