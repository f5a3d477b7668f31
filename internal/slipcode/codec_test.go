package slipcode_test

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/slipcode"
)

func ref(transferID, slipID string) domain.SlipRef {
	return domain.SlipRef{Type: domain.SlipTokenType, TransferID: transferID, SlipID: slipID}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	refs := []domain.SlipRef{
		ref("T1", "S1"),
		ref(uuid.NewString(), uuid.NewString()),
		ref("TR-2024/0001", "slip \"quoted\" \\ back"),
		ref(strings.Repeat("t", slipcode.MaxIDLength), strings.Repeat("s", slipcode.MaxIDLength)),
	}

	for _, r := range refs {
		token, err := slipcode.Encode(r)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(token), slipcode.MaxTokenLength)
		for _, c := range token {
			assert.True(t, c <= unicode.MaxASCII && unicode.IsPrint(c), "caractere não imprimível %q", c)
		}

		decoded, err := slipcode.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, r, decoded)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := slipcode.Encode(ref("T1", "S1"))
	require.NoError(t, err)
	b, err := slipcode.Encode(ref("T1", "S1"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, `{"type":"transfer_slip","transferId":"T1","slipId":"S1"}`, a)
}

func TestEncode_RejectsInvalidIDs(t *testing.T) {
	for _, r := range []domain.SlipRef{
		ref("", "S1"),
		ref("T1", ""),
		ref("T1", " S1"),
		ref("T1", "S\n1"),
		ref("T1", "guia-ç"),
		ref("T1", strings.Repeat("s", slipcode.MaxIDLength+1)),
	} {
		_, err := slipcode.Encode(r)
		assert.IsType(t, &apperror.ValidationError{}, err, "%+v", r)
	}

	_, err := slipcode.Encode(domain.SlipRef{Type: "product", TransferID: "T1", SlipID: "S1"})
	assert.IsType(t, &apperror.UnsupportedTokenTypeError{}, err)
}

func TestDecode_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"S1",
		"PYR-0001-ABC",
		"https://example.com/slip/S1",
		"{",
		`{"type":"transfer_slip","transferId":"T1"`,
		`{"type":"transfer_slip","transferId":"T1"}`,
		`{"type":"transfer_slip","slipId":"S1"}`,
		`{"type":"transfer_slip","transferId":"T1","slipId":""}`,
		`{"type":"transfer_slip","transferId":"T1","slipId":42}`,
		`{"type":"transfer_slip","transferId":null,"slipId":"S1"}`,
		`[{"type":"transfer_slip"}]`,
		"{" + strings.Repeat(" ", slipcode.MaxTokenLength) + "}",
		"\x00\x01\x02",
	}

	for _, in := range inputs {
		_, err := slipcode.Decode(in)
		assert.IsType(t, &apperror.MalformedTokenError{}, err, "entrada %q", in)
	}
}

func TestDecode_UnsupportedType(t *testing.T) {
	for _, in := range []string{
		`{"type":"product","transferId":"T1","slipId":"S1"}`,
		`{"type":"TRANSFER_SLIP","transferId":"T1","slipId":"S1"}`,
		`{"transferId":"T1","slipId":"S1"}`,
	} {
		_, err := slipcode.Decode(in)
		assert.IsType(t, &apperror.UnsupportedTokenTypeError{}, err, "entrada %q", in)
	}
}

// TestDecode_IgnoresUnknownAndAuthorityFields garante que dados de remessa no QR não têm autoridade.
func TestDecode_IgnoresUnknownAndAuthorityFields(t *testing.T) {
	in := `{"type":"transfer_slip","transferId":"T1","slipId":"S1","quantity":500,"fromBranch":"B9","toBranch":"B8","v":2}`

	got, err := slipcode.Decode(in)

	require.NoError(t, err)
	assert.Equal(t, ref("T1", "S1"), got)
}

func TestDecode_FullWidthAndWhitespace(t *testing.T) {
	in := "  ｛\"type\"：\"transfer_slip\"，\"transferId\"：\"T1\"，\"slipId\"：\"S1\"｝\n"

	got, err := slipcode.Decode(in)

	require.NoError(t, err)
	assert.Equal(t, ref("T1", "S1"), got)
}

func TestDecode_NeverPanics(t *testing.T) {
	for i := 0; i < 256; i++ {
		in := fmt.Sprintf(`{"type":"transfer_slip","transferId":%q,"slipId":"%c"}`, strings.Repeat("x", i), rune(i))
		assert.NotPanics(t, func() { _, _ = slipcode.Decode(in) })
	}
}

func TestNewRef(t *testing.T) {
	r := slipcode.NewRef(domain.TransferSlip{ID: "S1", TransferID: "T1", Quantity: 5})
	assert.Equal(t, ref("T1", "S1"), r)
}
