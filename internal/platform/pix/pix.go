// Package pix genera payloads EMV "copia e cola" para cobros PIX estáticos.
// Referencia: Manual de Padrões para Iniciação do PIX (BACEN), formato
// EMV-MPM: campos id(2) + len(2) + valor, CRC16-CCITT al final.
package pix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// EMV limita el txid (campo 62-05) a 25 caracteres.
	maxTxIDLen = 25

	merchantCategoryNone = "0000"
	currencyBRL          = "986"
	countryBR            = "BR"
)

var (
	ErrInvalidAmount = errors.New("pix: amount must be positive")
	ErrNotConfigured = errors.New("pix: generator not configured")
)

type Generator struct {
	Key          string // llave PIX (email, CPF/CNPJ, EVP...)
	MerchantName string
	MerchantCity string
}

func NewGenerator(key, merchantName, merchantCity string) *Generator {
	return &Generator{
		Key:          strings.TrimSpace(key),
		MerchantName: strings.TrimSpace(merchantName),
		MerchantCity: strings.TrimSpace(merchantCity),
	}
}

func (g *Generator) IsConfigured() bool {
	return g != nil && g.Key != "" && g.MerchantName != "" && g.MerchantCity != ""
}

type Payload struct {
	Code   string // payload completo, listo para QR / copia e cola
	TxID   string
	Amount float64
}

// NewTxID: uuid sin guiones, truncado al máximo EMV.
func NewTxID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:maxTxIDLen]
}

// Generate arma el payload estático para el monto dado.
// Con amount <= 0 falla: las donaciones siempre llevan monto.
func (g *Generator) Generate(amount float64) (Payload, error) {
	if !g.IsConfigured() {
		return Payload{}, ErrNotConfigured
	}
	if amount <= 0 {
		return Payload{}, ErrInvalidAmount
	}

	txID := NewTxID()

	var b strings.Builder
	b.WriteString(field("00", "01")) // Payload Format Indicator
	b.WriteString(field("01", "12")) // Point of Initiation: estático, un solo uso

	account := field("00", "BR.GOV.BCB.PIX") + field("01", g.Key)
	b.WriteString(field("26", account))

	b.WriteString(field("52", merchantCategoryNone))
	b.WriteString(field("53", currencyBRL))
	b.WriteString(field("54", fmt.Sprintf("%.2f", amount)))
	b.WriteString(field("58", countryBR))
	b.WriteString(field("59", g.MerchantName))
	b.WriteString(field("60", g.MerchantCity))
	b.WriteString(field("62", field("05", txID)))

	// CRC se calcula sobre todo el payload incluyendo el propio "6304".
	b.WriteString("6304")
	code := b.String()
	code += crc16(code)

	return Payload{Code: code, TxID: txID, Amount: amount}, nil
}

func field(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16 implementa CRC16-CCITT (poly 0x1021, init 0xFFFF), hex mayúsculas.
func crc16(s string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}
