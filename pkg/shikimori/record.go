package shikimori

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"animeplan/pkg/upstream"
)

var validate = validator.New()

// Record is one anime as returned by /api/animes. ID and Name are required;
// a record without them is rejected at decode time.
type Record struct {
	ID         int64  `json:"id" validate:"gt=0"`
	Name       string `json:"name" validate:"required"`
	Russian    string `json:"russian,omitempty"`
	URL        string `json:"url,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Score      Score  `json:"score"`
	Status     string `json:"status,omitempty"`
	Episodes   int    `json:"episodes"`
	AiredOn    string `json:"aired_on,omitempty"`
	ReleasedOn string `json:"released_on,omitempty"`
}

// DisplayTitle prefers the localized name.
func (r Record) DisplayTitle() string {
	if t := strings.TrimSpace(r.Russian); t != "" {
		return t
	}
	return r.Name
}

// Score accepts both "8.01" and 8.01; the API sends strings.
type Score float64

func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*s = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("score %q: %w", str, err)
		}
		*s = Score(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*s = Score(f)
	return nil
}

// decodeRecords parses a JSON array of records and validates each one.
func decodeRecords(body []byte) ([]Record, error) {
	var recs []Record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrMalformed, err)
	}
	for i := range recs {
		if err := validate.Struct(recs[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", upstream.ErrMalformed, i, err)
		}
	}
	return recs, nil
}
