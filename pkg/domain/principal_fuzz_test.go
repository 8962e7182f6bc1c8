package domain

import "testing"

// FuzzParsePrincipal checks that parsing never panics and that every
// accepted value round-trips through its canonical string form.
func FuzzParsePrincipal(f *testing.F) {
	f.Add("")
	f.Add(samplePrincipal)
	f.Add("0x0000000000000000000000000000000000000000")
	f.Add("0x")
	f.Add("'; DROP TABLE verification_entries;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add(samplePrincipal + "\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		p, err := ParsePrincipal(input)
		if err != nil {
			return
		}
		roundTrip, err := ParsePrincipal(p.String())
		if err != nil {
			t.Fatalf("valid principal failed round-trip: %v", err)
		}
		if roundTrip != p {
			t.Fatal("round-trip changed principal value")
		}
	})
}
