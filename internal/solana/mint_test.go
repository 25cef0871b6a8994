package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func buildMintData(mintAuth, freezeAuth []byte) []byte {
	data := make([]byte, mintAccountSize)
	if mintAuth != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		copy(data[4:36], mintAuth)
	}
	binary.LittleEndian.PutUint64(data[36:44], 1_000_000)
	data[44] = 9
	data[45] = 1
	if freezeAuth != nil {
		binary.LittleEndian.PutUint32(data[46:50], 1)
		copy(data[50:82], freezeAuth)
	}
	return data
}

func TestParseMintAccount(t *testing.T) {
	mintAuth := make([]byte, 32)
	mintAuth[0] = 0xAA
	freezeAuth := make([]byte, 32)
	freezeAuth[0] = 0xBB

	tests := []struct {
		name       string
		data       []byte
		wantMint   *string
		wantFreeze *string
		wantErr    bool
	}{
		{
			name:       "both authorities set",
			data:       buildMintData(mintAuth, freezeAuth),
			wantMint:   strPtr(base58.Encode(mintAuth)),
			wantFreeze: strPtr(base58.Encode(freezeAuth)),
		},
		{
			name: "both authorities revoked",
			data: buildMintData(nil, nil),
		},
		{
			name:     "mint set freeze revoked",
			data:     buildMintData(mintAuth, nil),
			wantMint: strPtr(base58.Encode(mintAuth)),
		},
		{
			name:    "truncated data",
			data:    make([]byte, 40),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseMintAccount(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMintAccount: %v", err)
			}
			if !strPtrEq(info.MintAuthority, tt.wantMint) {
				t.Errorf("MintAuthority = %v, want %v", deref(info.MintAuthority), deref(tt.wantMint))
			}
			if !strPtrEq(info.FreezeAuthority, tt.wantFreeze) {
				t.Errorf("FreezeAuthority = %v, want %v", deref(info.FreezeAuthority), deref(tt.wantFreeze))
			}
			if info.Decimals != 9 {
				t.Errorf("Decimals = %d, want 9", info.Decimals)
			}
			if !info.Initialized {
				t.Error("Initialized = false, want true")
			}
		})
	}
}

func TestMintAuthoritiesRejectsBadAddress(t *testing.T) {
	client := NewClient("http://unused.invalid", 100, testLogger())

	if _, err := client.MintAuthorities(context.Background(), "not-base58-0OIl"); err == nil {
		t.Error("expected error for non-base58 address")
	}
	// Valid base58 but too short to be a public key.
	if _, err := client.MintAuthorities(context.Background(), base58.Encode([]byte{1, 2, 3})); err == nil {
		t.Error("expected error for short address")
	}
}

func TestMintAuthoritiesViaRPC(t *testing.T) {
	tokenAddr := base58.Encode(bytesOf(0x11))
	mintAuth := bytesOf(0xAA)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["method"] != "getAccountInfo" {
			t.Errorf("method = %v, want getAccountInfo", req["method"])
		}
		encoded := base64.StdEncoding.EncodeToString(buildMintData(mintAuth, nil))
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"value":{"data":["%s","base64"],"owner":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"}}}`, encoded)
	}))
	defer server.Close()

	client := NewClient(server.URL, 100, testLogger())
	info, err := client.MintAuthorities(context.Background(), tokenAddr)
	if err != nil {
		t.Fatalf("MintAuthorities: %v", err)
	}
	if info.MintAuthority == nil || *info.MintAuthority != base58.Encode(mintAuth) {
		t.Errorf("MintAuthority = %v, want %s", deref(info.MintAuthority), base58.Encode(mintAuth))
	}
	if info.FreezeAuthority != nil {
		t.Errorf("FreezeAuthority = %v, want nil", deref(info.FreezeAuthority))
	}
}

func TestMintAuthoritiesAccountNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"value":null}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 100, testLogger())
	if _, err := client.MintAuthorities(context.Background(), base58.Encode(bytesOf(0x22))); err == nil {
		t.Error("expected error for missing account")
	}
}

func bytesOf(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

func strPtr(s string) *string { return &s }

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
