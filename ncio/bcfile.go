package ncio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nswing/nswing"
)

// ReadBCFile parses the wave-maker boundary condition text format of
// §6: "#" comments (including "# B:S|W|E|N" selecting the active
// border), a first data row of (x y ...) positions, then rows of
// (t z1 z2 ... zN).
func ReadBCFile(path string) (*nswing.BCDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncio: open %s: %w", path, err)
	}
	defer f.Close()

	bc := &nswing.BCDescriptor{ActiveBorder: nswing.BorderS}
	sc := bufio.NewScanner(f)
	havePositions := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if b, ok := parseActiveBorder(line); ok {
				bc.ActiveBorder = b
			}
			continue
		}

		fields := strings.Fields(line)
		nums := make([]float64, 0, len(fields))
		for _, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("ncio: %s: parsing %q: %w", path, tok, err)
			}
			nums = append(nums, v)
		}

		if !havePositions {
			bc.Positions = nums
			havePositions = true
			continue
		}

		bc.Times = append(bc.Times, nums[0])
		bc.Values = append(bc.Values, nums[1:])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ncio: reading %s: %w", path, err)
	}
	if !havePositions {
		return nil, fmt.Errorf("ncio: %s: missing position row", path)
	}
	return bc, nil
}

func parseActiveBorder(comment string) (nswing.Border, bool) {
	idx := strings.Index(comment, "B:")
	if idx < 0 {
		return 0, false
	}
	tag := comment[idx+2:]
	if len(tag) == 0 {
		return 0, false
	}
	switch tag[0] {
	case 'S':
		return nswing.BorderS, true
	case 'W':
		return nswing.BorderW, true
	case 'E':
		return nswing.BorderE, true
	case 'N':
		return nswing.BorderN, true
	}
	return 0, false
}
