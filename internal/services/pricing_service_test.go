package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurtainPrice(t *testing.T) {
	svc := NewPricingService()

	// 200cm rail, fullness 2 means 4m of fabric at 150000/m
	price, err := svc.CurtainPrice(200, 250, 150000)
	assert.NoError(t, err)
	assert.Equal(t, int64(600000), price)

	// 135cm rail: 270cm of fabric, 2.7m at 100000/m
	price, err = svc.CurtainPrice(135, 250, 100000)
	assert.NoError(t, err)
	assert.Equal(t, int64(270000), price)

	// rounding: 33cm rail, 66cm fabric at 9999/m is 6599.34
	price, err = svc.CurtainPrice(33, 250, 9999)
	assert.NoError(t, err)
	assert.Equal(t, int64(6599), price)
}

func TestVitrasePrice(t *testing.T) {
	svc := NewPricingService()

	// no fullness multiplier: 200cm at 150000/m is 3m worth
	price, err := svc.VitrasePrice(200, 250, 150000)
	assert.NoError(t, err)
	assert.Equal(t, int64(300000), price)

	curtain, err := svc.CurtainPrice(200, 250, 150000)
	assert.NoError(t, err)
	assert.Equal(t, curtain, price*2)
}

func TestBlindPrice(t *testing.T) {
	svc := NewPricingService()

	// 100x100cm is exactly 1 square meter
	price, err := svc.BlindPrice(100, 100, 250000)
	assert.NoError(t, err)
	assert.Equal(t, int64(250000), price)

	// 150x200cm is 3 square meters
	price, err = svc.BlindPrice(150, 200, 250000)
	assert.NoError(t, err)
	assert.Equal(t, int64(750000), price)

	// rounding half up: 50x50cm is 0.25 sqm, at 99999/sqm is 24999.75
	price, err = svc.BlindPrice(50, 50, 99999)
	assert.NoError(t, err)
	assert.Equal(t, int64(25000), price)
}

func TestQuoteDispatch(t *testing.T) {
	svc := NewPricingService()

	tests := []struct {
		calculatorType string
		want           int64
	}{
		{CalculatorTypeCurtain, 600000},
		{CalculatorTypeVitrase, 300000},
		{CalculatorTypeBlind, 750000},
	}

	for _, tt := range tests {
		t.Run(tt.calculatorType, func(t *testing.T) {
			price, err := svc.Quote(tt.calculatorType, 200, 250, 150000)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}

	_, err := svc.Quote("awning", 200, 250, 150000)
	assert.Error(t, err)
}

func TestQuoteRejectsInvalidMeasurements(t *testing.T) {
	svc := NewPricingService()

	for _, calcType := range []string{CalculatorTypeCurtain, CalculatorTypeVitrase, CalculatorTypeBlind} {
		_, err := svc.Quote(calcType, 0, 250, 150000)
		assert.Error(t, err, calcType)

		_, err = svc.Quote(calcType, 200, -1, 150000)
		assert.Error(t, err, calcType)

		_, err = svc.Quote(calcType, 200, 250, 0)
		assert.Error(t, err, calcType)
	}
}
