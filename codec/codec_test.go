package codec

import (
	"testing"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		if !ok {
			t.Fatalf("expected codec %q", name)
		}
		if c.Name() != name {
			t.Fatalf("expected name %q, got %q", name, c.Name())
		}
	}
	if _, ok := ByName("msgpack"); ok {
		t.Fatalf("expected unknown codec to be rejected")
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	type value struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		in := value{Name: "a", N: 42}

		data, err := c.Marshal(in)
		if err != nil {
			t.Fatalf("%s marshal failed: %v", c.Name(), err)
		}
		var out value
		if err := c.Unmarshal(data, &out); err != nil {
			t.Fatalf("%s unmarshal failed: %v", c.Name(), err)
		}
		if out != in {
			t.Fatalf("%s round trip mismatch: %+v != %+v", c.Name(), out, in)
		}
	}
}
