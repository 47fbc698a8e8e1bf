package strip

import "testing"

func TestBuffer_Fill(t *testing.T) {
	buf := NewBuffer(4)
	buf.Fill(Pixel{R: 10, G: 20, B: 30})

	for i, p := range buf {
		if (p != Pixel{R: 10, G: 20, B: 30}) {
			t.Errorf("pixel %d = %+v", i, p)
		}
	}
}

func TestBuffer_Clear(t *testing.T) {
	buf := NewBuffer(3)
	buf.Fill(Pixel{R: 255, G: 255, B: 255})
	buf.Clear()

	for i, p := range buf {
		if (p != Pixel{}) {
			t.Errorf("pixel %d not cleared: %+v", i, p)
		}
	}
}

func TestBuffer_Dim(t *testing.T) {
	tests := []struct {
		name  string
		in    uint8
		scale uint8
		want  uint8
	}{
		{"full channel", 255, 235, 234},
		{"half channel", 128, 235, 117},
		{"low channel reaches zero", 1, 235, 0},
		{"zero stays zero", 0, 235, 0},
		{"zero scale blacks out", 200, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Buffer{{R: tt.in, G: tt.in, B: tt.in}}
			buf.Dim(tt.scale)
			if buf[0].R != tt.want || buf[0].G != tt.want || buf[0].B != tt.want {
				t.Errorf("Dim(%d) on %d = %+v, want %d", tt.scale, tt.in, buf[0], tt.want)
			}
		})
	}
}

func TestBuffer_Dim_DecaysToBlack(t *testing.T) {
	buf := Buffer{{R: 255, G: 255, B: 255}}

	for i := 0; i < 200; i++ {
		buf.Dim(235)
	}
	if (buf[0] != Pixel{}) {
		t.Errorf("repeated dimming should reach black, got %+v", buf[0])
	}
}

func TestBuffer_Clone(t *testing.T) {
	buf := Buffer{{R: 1}, {G: 2}, {B: 3}}
	cp := buf.Clone()

	cp[0].R = 99
	if buf[0].R != 1 {
		t.Error("Clone() shares backing storage")
	}
	if len(cp) != len(buf) {
		t.Errorf("Clone() length = %d, want %d", len(cp), len(buf))
	}
}
