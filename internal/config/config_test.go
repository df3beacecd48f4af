package config

import "testing"

func TestLoadWithoutFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error for missing config file: %v", err)
	}
	def := Defaults()
	if cfg.TabWidth != def.TabWidth {
		t.Errorf("TabWidth = %d, want default %d", cfg.TabWidth, def.TabWidth)
	}
	if cfg.DecorationNamespaceCap != def.DecorationNamespaceCap {
		t.Errorf("DecorationNamespaceCap = %d, want default %d", cfg.DecorationNamespaceCap, def.DecorationNamespaceCap)
	}
	if cfg.ViewStateLRUSize != 20 {
		t.Errorf("ViewStateLRUSize = %d, want 20", cfg.ViewStateLRUSize)
	}
}
