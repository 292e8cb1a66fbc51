package style

import "testing"

func TestProfileSaveLoadRoundTrip(t *testing.T) {
	p := CalmTech
	data, err := p.Save()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *loaded != p {
		t.Errorf("round-tripped profile %+v != original %+v", *loaded, p)
	}
}

func TestPreset_UnknownNameNotFound(t *testing.T) {
	if _, ok := Preset("does_not_exist"); ok {
		t.Errorf("expected unknown preset to not be found")
	}
}

func TestPreset_KnownPresets(t *testing.T) {
	for _, name := range []string{"calm_tech", "energetic", "lecturer"} {
		p, ok := Preset(name)
		if !ok {
			t.Errorf("expected preset %q to be found", name)
			continue
		}
		if p.Name != name {
			t.Errorf("preset %q has Name field %q", name, p.Name)
		}
	}
}
