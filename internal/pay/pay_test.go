package pay

import "testing"

func TestSignToken_IgnoresExistingToken(t *testing.T) {
	base := map[string]any{
		"TerminalKey": "term",
		"Amount":      float64(29900),
		"OrderId":     "premium-7",
	}
	withToken := map[string]any{
		"TerminalKey": "term",
		"Amount":      float64(29900),
		"OrderId":     "premium-7",
		"Token":       "stale-signature",
	}
	if signToken("pw", base) != signToken("pw", withToken) {
		t.Fatal("a stale Token entry must not sign itself")
	}
}

func TestSignToken_PasswordChangesSignature(t *testing.T) {
	m := map[string]any{"TerminalKey": "term", "OrderId": "premium-7"}
	if signToken("pw", m) == signToken("other", m) {
		t.Fatal("signature must depend on the terminal password")
	}
}

func TestVerifyToken_RoundTrip(t *testing.T) {
	c := NewClient("term", "pw")
	payload, err := c.sign(statusRequest{TerminalKey: "term", PaymentID: "42"})
	if err != nil {
		t.Fatal(err)
	}
	token, ok := payload["Token"].(string)
	if !ok || token == "" {
		t.Fatalf("sign must attach a Token, got %+v", payload)
	}
	if !c.VerifyToken(payload, token) {
		t.Fatal("a freshly signed payload must verify")
	}
	if c.VerifyToken(payload, "deadbeef") {
		t.Fatal("a wrong token must not verify")
	}
	if NewClient("term", "other").VerifyToken(payload, token) {
		t.Fatal("a different password must not verify")
	}
}

func TestTokenValue_WireFormats(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{float64(29900), "29900"},
		{int64(5), "5"},
		{true, "true"},
	}
	for _, c := range cases {
		if got := tokenValue(c.in); got != c.want {
			t.Fatalf("tokenValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
