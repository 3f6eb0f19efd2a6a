package features

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"tissuetopo/internal/models"
)

func TestKeyString(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{Key{Cubical, "tumor_immune", AggregateDim, "birth_mean"}, "cubical_tumor_immune_birth_mean"},
		{Key{Witness, "tumor_immune", 0, "n_features"}, "witness_tumor_immune_h0_n_features"},
		{Key{Cubical, "immune_stromal", 1, "lifetime_std"}, "cubical_immune_stromal_h1_lifetime_std"},
	}
	for _, c := range cases {
		if got := c.key.String(); got != c.want {
			t.Errorf("Expected %q, got %q", c.want, got)
		}
	}
}

func TestKeysAggregate(t *testing.T) {
	keys := Keys(models.DefaultPairs(), nil)

	// 3 pairs x 2 complexes x 13 statistics.
	if len(keys) != 78 {
		t.Fatalf("Expected 78 keys, got %d", len(keys))
	}
	seen := make(map[Key]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			t.Errorf("Duplicate key %v", k)
		}
		seen[k] = true
		if k.Dim != AggregateDim {
			t.Errorf("Expected aggregate dimension, got %d", k.Dim)
		}
	}
}

func TestKeysPerDimension(t *testing.T) {
	pairs := models.DefaultPairs()
	keys := Keys(pairs, []int{0, 1})

	if len(keys) != 156 {
		t.Fatalf("Expected 156 keys, got %d", len(keys))
	}
	// Pairs are the outermost grouping, cubical precedes witness.
	if keys[0].Pair != "tumor_immune" || keys[0].Complex != Cubical {
		t.Errorf("Unexpected first key %v", keys[0])
	}
	if keys[26].Complex != Witness {
		t.Errorf("Expected witness block after cubical, got %v", keys[26])
	}
}

func TestMergeDisjoint(t *testing.T) {
	a := Record{}
	a.add(Cubical, "tumor_immune", AggregateDim, Stats{NFeatures: 3})
	b := Record{}
	b.add(Witness, "tumor_immune", AggregateDim, Stats{NFeatures: 5})

	a.Merge(b)
	if len(a) != 26 {
		t.Fatalf("Expected 26 merged fields, got %d", len(a))
	}
	if a[Key{Cubical, "tumor_immune", AggregateDim, "n_features"}] != 3 {
		t.Error("Cubical fields clobbered by merge")
	}
	if a[Key{Witness, "tumor_immune", AggregateDim, "n_features"}] != 5 {
		t.Error("Witness fields missing after merge")
	}
}

func TestWriteCSV(t *testing.T) {
	pairs := []models.Pair{{A: "tumor", B: "immune"}}
	keys := Keys(pairs, nil)

	rec := Record{}
	rec.add(Cubical, "tumor_immune", AggregateDim, Stats{
		BirthMin: 0, BirthMax: 0.5, BirthMean: 0.25, BirthStd: 0.25,
		DeathMin: 1, DeathMax: math.Inf(1), DeathMean: math.Inf(1), DeathStd: math.NaN(),
		LifetimeMin: 1, LifetimeMax: math.Inf(1), LifetimeMean: math.Inf(1), LifetimeStd: math.NaN(),
		NFeatures: 2,
	})
	rec.add(Witness, "tumor_immune", AggregateDim, missingStats())

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"img_001"}, []Record{rec}, keys); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	r := csv.NewReader(strings.NewReader(buf.String()))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus one row, got %d rows", len(rows))
	}

	header, row := rows[0], rows[1]
	if header[0] != "image" || row[0] != "img_001" {
		t.Errorf("Unexpected identifier column: %q / %q", header[0], row[0])
	}
	col := func(name string) string {
		t.Helper()
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("Column %q not found", name)
		return ""
	}

	if got := col("cubical_tumor_immune_birth_mean"); got != "0.25" {
		t.Errorf("Expected 0.25, got %q", got)
	}
	if got := col("cubical_tumor_immune_death_max"); got != "inf" {
		t.Errorf("Expected inf, got %q", got)
	}
	if got := col("cubical_tumor_immune_death_std"); got != "" {
		t.Errorf("Expected empty cell for NaN, got %q", got)
	}
	if got := col("cubical_tumor_immune_n_features"); got != "2" {
		t.Errorf("Expected 2, got %q", got)
	}
	// The all-missing witness block writes empty statistics and a zero count.
	if got := col("witness_tumor_immune_birth_mean"); got != "" {
		t.Errorf("Expected empty cell, got %q", got)
	}
	if got := col("witness_tumor_immune_n_features"); got != "0" {
		t.Errorf("Expected 0, got %q", got)
	}
}

func TestWriteCSVLengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"a", "b"}, []Record{{}}, nil)
	if err == nil {
		t.Fatal("Expected error on id/record length mismatch")
	}
}
