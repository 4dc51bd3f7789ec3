package source

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseOkadaFault parses a comma-separated Okada fault descriptor:
// length,width,strike,dip,rake,slip,topDepth,epicenterX,epicenterY.
func ParseOkadaFault(params string) (*OkadaFault, error) {
	fields, err := splitFloats(params, 9)
	if err != nil {
		return nil, fmt.Errorf("source: okada descriptor: %w", err)
	}
	return &OkadaFault{
		Length: fields[0], Width: fields[1],
		Strike: fields[2], Dip: fields[3], Rake: fields[4],
		Slip: fields[5], TopDepth: fields[6],
		EpicenterX: fields[7], EpicenterY: fields[8],
	}, nil
}

// ParseKabaSource parses a comma-separated Kaba source region. The type-1
// form is "1,xMin,xMax,yMin,yMax"; the type-2 form is
// "2,centerX,centerY,halfWidthXCells,halfWidthYCells".
func ParseKabaSource(params string) (*KabaSource, error) {
	parts := strings.Split(params, ",")
	if len(parts) == 0 {
		return nil, fmt.Errorf("source: empty kaba descriptor")
	}
	typ, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("source: kaba type: %w", err)
	}
	switch typ {
	case 1:
		fields, err := splitFloats(strings.Join(parts[1:], ","), 4)
		if err != nil {
			return nil, fmt.Errorf("source: kaba type-1 descriptor: %w", err)
		}
		return &KabaSource{Type: 1, XMin: fields[0], XMax: fields[1], YMin: fields[2], YMax: fields[3]}, nil
	case 2:
		fields, err := splitFloats(strings.Join(parts[1:], ","), 4)
		if err != nil {
			return nil, fmt.Errorf("source: kaba type-2 descriptor: %w", err)
		}
		return &KabaSource{
			Type: 2, CenterX: fields[0], CenterY: fields[1],
			HalfWidthX: int(fields[2]), HalfWidthY: int(fields[3]),
		}, nil
	default:
		return nil, fmt.Errorf("source: kaba type must be 1 or 2, got %d", typ)
	}
}

func splitFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated fields, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("field %d (%q): %w", i, p, err)
		}
		out[i] = v
	}
	return out, nil
}
