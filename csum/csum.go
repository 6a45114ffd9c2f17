// Package csum computes content digests and converts them between the
// hexadecimal form used in cache keys and the compact form used on disk.
package csum

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// HexLen is the length of a hex-encoded SHA-512 digest.
const HexLen = sha512.Size * 2

// B64Len is the length of a compacted SHA-512 digest.
var B64Len = enc.EncodedLen(sha512.Size)

// URL-safe so the result can be used as a file name.
var enc = base64.RawURLEncoding

// HexTo64 converts a hex digest to its unpadded URL-safe base64 form.
func HexTo64(hexsum string) (string, error) {
	bin, err := hex.DecodeString(hexsum)
	if err != nil {
		return "", errors.Wrapf(err, "not a hex digest: %q", hexsum)
	}
	return enc.EncodeToString(bin), nil
}

// B64ToHex reverses HexTo64.
func B64ToHex(b64sum string) (string, error) {
	bin, err := enc.DecodeString(b64sum)
	if err != nil {
		return "", errors.Wrapf(err, "not a base64 digest: %q", b64sum)
	}
	return hex.EncodeToString(bin), nil
}

// Sha512Hex returns the hex SHA-512 digest of everything read from rd.
func Sha512Hex(rd io.Reader) (string, error) {
	h := sha512.New()
	_, err := io.Copy(h, rd)
	if err != nil {
		return "", errors.Wrap(err, "hash input")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sha512HexFile is Sha512Hex on the contents of the named file.
func Sha512HexFile(fn string) (hexsum string, err error) {
	fh, err := os.Open(fn)
	if err != nil {
		return
	}
	defer fh.Close()
	return Sha512Hex(fh)
}
