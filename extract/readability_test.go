package extract

import "testing"

func TestReadable(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"too short", "bonjour", false},
		{"french prose", "Le client a signé le contrat de location dans les délais prévus.", true},
		{"english prose", "The invoice is attached to this letter for your records.", true},
		{"structural only", "Dupont SARL 12/03/2024 montant 1250,00 EUR", true},
		{"binary noise", "\x01\x02\x03\x04\x05\x06\x07\x08\x0b\x0c\x0e\x0f\x10\x11", false},
		{"foreign script", "これは日本語のテキストです、読めません、全部外国語です", false},
		{"word fragments", "xqz wvk pfft zzzz qqqq mmmm kkkk nnnn", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Readable(tc.text); got != tc.want {
				t.Fatalf("Readable(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	if n := CountWords("  un\tdeux\ntrois  "); n != 3 {
		t.Fatalf("got %d", n)
	}
	if n := CountWords(""); n != 0 {
		t.Fatalf("got %d", n)
	}
}
