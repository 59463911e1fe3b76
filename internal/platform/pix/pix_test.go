package pix

import (
	"strings"
	"testing"
)

func TestCRC16_KnownVector(t *testing.T) {
	// Vector clásico de CRC16-CCITT (init 0xFFFF).
	if got := crc16("123456789"); got != "29B1" {
		t.Fatalf("crc16(123456789) = %s, want 29B1", got)
	}
}

func TestGenerate_PayloadStructure(t *testing.T) {
	g := NewGenerator("donate@ong.org", "ONG AMIGO DOS AMIGOS", "SAO PAULO")

	p, err := g.Generate(50)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if !strings.HasPrefix(p.Code, "000201") {
		t.Fatalf("expected payload format indicator prefix, got %q", p.Code[:10])
	}
	if !strings.Contains(p.Code, "BR.GOV.BCB.PIX") {
		t.Fatalf("expected GUI BR.GOV.BCB.PIX in payload")
	}
	if !strings.Contains(p.Code, "donate@ong.org") {
		t.Fatalf("expected pix key in payload")
	}
	if !strings.Contains(p.Code, "540550.00") {
		t.Fatalf("expected amount field 54 with 50.00, payload=%q", p.Code)
	}
	if !strings.Contains(p.Code, "5802BR") {
		t.Fatalf("expected country field BR")
	}
	if !strings.Contains(p.Code, p.TxID) {
		t.Fatalf("expected txid embedded in payload")
	}

	// El CRC final debe validar contra el resto del payload.
	body, sum := p.Code[:len(p.Code)-4], p.Code[len(p.Code)-4:]
	if crc16(body) != sum {
		t.Fatalf("payload CRC mismatch: got %s want %s", sum, crc16(body))
	}
}

func TestGenerate_TxIDWithinEMVLimit(t *testing.T) {
	for i := 0; i < 10; i++ {
		id := NewTxID()
		if len(id) > 25 {
			t.Fatalf("txid exceeds EMV limit: %d chars", len(id))
		}
		if id != strings.ToUpper(id) {
			t.Fatalf("expected uppercase txid, got %s", id)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	var nilGen *Generator
	if _, err := nilGen.Generate(10); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured for nil generator, got %v", err)
	}

	g := NewGenerator("key", "NAME", "CITY")
	if _, err := g.Generate(0); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount for zero amount, got %v", err)
	}
	if _, err := g.Generate(-5); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount for negative amount, got %v", err)
	}
}
