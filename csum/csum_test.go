package csum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// test boolean condition
func tassert(t *testing.T, cond bool, txt string, args ...interface{}) {
	t.Helper() // cause file:line info to show caller
	if !cond {
		t.Fatalf(txt, args...)
	}
}

const somevalueHex = "8e77e71abe427ced1c93d883aeeddfa57ce39b787f229caaf176fdd71353f3466d340a2cdb5a219c429c53ad37f2f144c7ce01b985b6b33e397c4b8fd1433cc3"

func TestSha512Hex(t *testing.T) {
	got, err := Sha512Hex(strings.NewReader("somevalue"))
	tassert(t, err == nil, "%v", err)
	tassert(t, got == somevalueHex, "expected %q got %q", somevalueHex, got)
	tassert(t, len(got) == HexLen, "len %d", len(got))
}

func TestSha512HexFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "somevalue")
	err := os.WriteFile(fn, []byte("somevalue"), 0644)
	tassert(t, err == nil, "%v", err)
	got, err := Sha512HexFile(fn)
	tassert(t, err == nil, "%v", err)
	tassert(t, got == somevalueHex, "expected %q got %q", somevalueHex, got)

	_, err = Sha512HexFile(fn + ".missing")
	tassert(t, err != nil, "expected error for missing file")
}

func TestHexTo64(t *testing.T) {
	expect := "jnfnGr5CfO0ck9iDru3fpXzjm3h_Ipyq8Xb91xNT80ZtNAos21ohnEKcU6038vFEx84BuYW2sz45fEuP0UM8ww"
	got, err := HexTo64(somevalueHex)
	tassert(t, err == nil, "%v", err)
	tassert(t, got == expect, "expected %q got %q", expect, got)
	tassert(t, len(got) == B64Len, "len %d", len(got))
	tassert(t, !strings.ContainsAny(got, "/+="), "not filesystem safe: %q", got)

	back, err := B64ToHex(got)
	tassert(t, err == nil, "%v", err)
	tassert(t, back == somevalueHex, "expected %q got %q", somevalueHex, back)

	_, err = HexTo64(strings.Repeat("zz", 64))
	tassert(t, err != nil, "expected error for non-hex input")
}
