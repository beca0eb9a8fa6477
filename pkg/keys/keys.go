package keys

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/avlviz/pkg/errors"
)

// Defaults for [Random], matching the batch button of the web demo this
// tool grew out of.
const (
	DefaultRandomCount = 20
	DefaultRandomMax   = 60
)

// Parse converts a single key.
func Parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidKey, "not an integer key: %q", s)
	}
	return k, nil
}

// ParseAll converts arguments that each hold one or more keys separated by
// commas or whitespace.
func ParseAll(args []string) ([]int, error) {
	var out []int
	for _, arg := range args {
		for _, f := range fields(arg) {
			k, err := Parse(f)
			if err != nil {
				return nil, err
			}
			out = append(out, k)
		}
	}
	return out, nil
}

// Read decodes keys from r: a JSON array if the first non-space byte is '[',
// a commented plain list otherwise.
func Read(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read keys")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var out []int
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode key array")
		}
		return out, nil
	}
	return readList(bytes.NewReader(data))
}

// ReadFile reads keys from the file at path. See [Read] for the formats.
func ReadFile(path string) ([]int, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Random returns n keys drawn uniformly from [1, maxKey]. The same seed
// always yields the same keys.
func Random(n, maxKey int, seed uint64) ([]int, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random key count must not be negative, got %d", n)
	}
	if maxKey < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random key maximum must be at least 1, got %d", maxKey)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	out := make([]int, n)
	for i := range out {
		out[i] = rng.IntN(maxKey) + 1
	}
	return out, nil
}

func readList(r io.Reader) ([]int, error) {
	var out []int
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text, _, _ := strings.Cut(sc.Text(), "#")
		for _, f := range fields(text) {
			k, err := Parse(f)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidKey, err, "line %d", line)
			}
			out = append(out, k)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan keys")
	}
	return out, nil
}

func fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
