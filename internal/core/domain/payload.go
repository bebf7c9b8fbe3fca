package domain

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/anonputraid/zetcipher/pkg/decimal"
)

// Separator delimits payload fields.
const Separator = "/"

// fillerSentences pads short payloads. Every sentence stays inside the text
// alphabet and never contains the separator.
var fillerSentences = []string{
	"The quiet river carries old stones toward the sea",
	"Seven lanterns burn along the northern harbour wall",
	"A patient gardener counts the seasons in rings of oak",
	"Morning trains leave platform 9 before the fog lifts",
	"Every map is a story about the land it forgets",
	"Copper wires hum softly under the winter snow",
	"The archive keeps 42 letters that were never sent",
	"Small boats drift past the lighthouse at half-tide",
	"Old clocks in the tower disagree by exactly one minute",
	"Wild mint grows between the cracks of the market square",
	"A cartographer sketches islands nobody has named",
	"Rain on tin roofs sounds like distant applause",
	"The ferry to the eastern shore runs twice on Sundays",
	"Thirteen swallows return to the barn every April",
	"Lamp-lit streets fold into the hills after midnight",
	"Salt and cedar scent the air above the boatyard",
}

// Payload is the plaintext frame carried inside a token:
// data/expiry/ or, when bound to an identity, data/expiry/identity/.
type Payload struct {
	Data     string
	Expiry   int64
	Identity string
}

// String returns the unpadded frame.
func (p Payload) String() string {
	s := p.Data + Separator + strconv.FormatInt(p.Expiry, 10) + Separator
	if p.Identity != "" {
		s += p.Identity + Separator
	}
	return s
}

// Frame returns the frame padded with filler until it is at least
// keyLen-1 bytes long. rnd selects the sentences; nil means crypto/rand.
func (p Payload) Frame(keyLen int, rnd io.Reader) (string, error) {
	s := p.String()
	extra := keyLen - len(s) - 1
	if extra <= 0 {
		return s, nil
	}

	pad, err := Filler(extra, rnd)
	if err != nil {
		return "", err
	}
	return s + pad, nil
}

// Filler returns n bytes of filler text.
func Filler(n int, rnd io.Reader) (string, error) {
	if n <= 0 {
		return "", nil
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	var sb strings.Builder
	sb.Grow(n + 64)
	limit := big.NewInt(int64(len(fillerSentences)))
	for sb.Len() < n {
		i, err := rand.Int(rnd, limit)
		if err != nil {
			return "", fmt.Errorf("filler: %w", err)
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fillerSentences[i.Int64()])
	}
	return sb.String()[:n], nil
}

// ValidFiller reports whether s is a prefix of some output of Filler:
// whole sentences separated by single spaces, the last one possibly cut.
func ValidFiller(s string) bool {
	for s != "" {
		next := ""
		matched := false
		for _, sentence := range fillerSentences {
			if strings.HasPrefix(sentence, s) {
				return true
			}
			if strings.HasPrefix(s, sentence) {
				next = s[len(sentence):]
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
		if next == "" {
			return true
		}
		if next[0] != ' ' {
			return false
		}
		s = next[1:]
	}
	return true
}

// ParsePayload splits a decoded frame. When identityBound is set the third
// field is returned as Identity.
//
// It reports false when the data field is empty, the expiry field is not
// a decimal number that fits in an int64, an identity-bound frame has no
// identity, or the bytes after the last field are not filler.
func ParsePayload(frame string, identityBound bool) (Payload, bool) {
	want := 3
	if identityBound {
		want = 4
	}
	fields := strings.SplitN(frame, Separator, want)
	if len(fields) < want {
		return Payload{}, false
	}

	data, exp := fields[0], fields[1]
	if data == "" || !decimal.IsDigits(exp) {
		return Payload{}, false
	}
	expiry, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return Payload{}, false
	}

	p := Payload{Data: data, Expiry: expiry}
	if identityBound {
		if fields[2] == "" {
			return Payload{}, false
		}
		p.Identity = fields[2]
	}
	if !ValidFiller(fields[want-1]) {
		return Payload{}, false
	}
	return p, true
}
