package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustlink/pkg/domain-errors"
	"trustlink/pkg/platform/hashing"
)

const sampleHash = "0x1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"

func decode[T any](t *testing.T, body string) *T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return &v
}

func TestStoreRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"hash only", `{"data_hash":"` + sampleHash + `"}`, true},
		{"data only", `{"data":{"email":"a@b.c"}}`, true},
		{"neither", `{"timestamp":5}`, false},
		{"null data", `{"data":null}`, false},
		{"both", `{"data_hash":"` + sampleHash + `","data":{"x":1}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decode[StoreRequest](t, tt.body).Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestStoreRequest_Resolve(t *testing.T) {
	req := decode[StoreRequest](t, `{"data": {"lat": 1, "lng": 2}}`)
	got, err := req.ResolveHash()
	require.NoError(t, err)
	want, err := hashing.HashJSON([]byte(`{"lat":1,"lng":2}`))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, uint64(42), req.ResolveTimestamp(42))

	req = decode[StoreRequest](t, `{"data_hash":"`+sampleHash+`","timestamp":0}`)
	got, err = req.ResolveHash()
	require.NoError(t, err)
	assert.Equal(t, sampleHash, got.String())
	assert.Equal(t, uint64(0), req.ResolveTimestamp(42), "explicit zero is kept")
}

func TestTypedStoreRequest(t *testing.T) {
	req := decode[TypedStoreRequest](t, `{"type":3,"data_hash":"`+sampleHash+`"}`)
	require.NoError(t, req.Validate())
	vt, err := req.VerificationType()
	require.NoError(t, err)
	assert.Equal(t, TypeEmail, vt)

	req = decode[TypedStoreRequest](t, `{"data_hash":"`+sampleHash+`"}`)
	assert.Error(t, req.Validate())

	req = decode[TypedStoreRequest](t, `{"type":300,"data_hash":"`+sampleHash+`"}`)
	require.NoError(t, req.Validate())
	_, err = req.VerificationType()
	assert.ErrorIs(t, err, ErrInvalidVerificationType)
}

func TestVerifyDocumentRequest(t *testing.T) {
	assert.Error(t, decode[VerifyDocumentRequest](t, `{"data_hash":"`+sampleHash+`"}`).Validate())
	assert.NoError(t, decode[VerifyDocumentRequest](t, `{"data_hash":"`+sampleHash+`","timestamp":1}`).Validate())
}

func TestCatalogue(t *testing.T) {
	cat := Catalogue()
	require.Len(t, cat, TypeCount)
	assert.Equal(t, "identity", cat[0].Kind)
	assert.True(t, cat[5].Storable)
	assert.False(t, cat[6].Storable)
}
