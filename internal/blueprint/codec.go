package blueprint

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// Exchange strings are one version character followed by base64 of
// zlib-compressed JSON.
const versionByte = '0'

// Decode parses an exchange string into a Blueprint. The payload is schema
// validated before unmarshalling; any failure here is fatal to the caller's
// deployment, so errors carry enough context to be printed as-is.
func Decode(s string) (*Blueprint, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("blueprint string is empty")
	}
	if trimmed[0] != versionByte {
		return nil, fmt.Errorf("unsupported blueprint version %q", trimmed[0])
	}
	compressed, err := base64.StdEncoding.DecodeString(trimmed[1:])
	if err != nil {
		return nil, fmt.Errorf("blueprint base64: %w", err)
	}
	raw, err := inflate(compressed)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("blueprint json: %w", err)
	}
	if err := payloadSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("blueprint schema: %w", err)
	}

	var w Wrapper
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("blueprint json: %w", err)
	}
	if w.Blueprint == nil {
		return nil, fmt.Errorf("payload is not a blueprint (books are not supported)")
	}
	return w.Blueprint, nil
}

// Encode is the inverse of Decode. Used by tests and tooling to author
// payloads programmatically.
func Encode(bp *Blueprint) (string, error) {
	raw, err := json.Marshal(Wrapper{Blueprint: bp})
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return string(versionByte) + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// inflate decompresses zlib data, falling back to raw deflate for payloads
// emitted without the zlib framing.
func inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err == nil {
		defer zr.Close()
		out, rerr := io.ReadAll(zr)
		if rerr == nil {
			return out, nil
		}
		err = rerr
	}
	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()
	out, ferr := io.ReadAll(fr)
	if ferr != nil {
		return nil, fmt.Errorf("blueprint decompress: zlib: %v, deflate: %v", err, ferr)
	}
	return out, nil
}
