package services

import (
	"fmt"
)

// Calculator types offered on survey intake.
const (
	CalculatorTypeCurtain = "curtain"
	CalculatorTypeBlind   = "blind"
	CalculatorTypeVitrase = "vitrase"
)

// curtainFullness is the fabric multiplier for pleated curtains: twice the
// rail width of fabric is sewn into the finished curtain.
const curtainFullness = 2

// PricingService computes quotes from window measurements. Pure arithmetic,
// no state; the catalog price comes from the product list.
type PricingService struct{}

func NewPricingService() *PricingService {
	return &PricingService{}
}

// roundHalfUpDiv divides n by d rounding half away from zero, in the smallest
// currency unit.
func roundHalfUpDiv(n, d int64) int64 {
	return (n + d/2) / d
}

// CurtainPrice quotes a pleated curtain: fabric width is the rail width times
// the fullness factor, priced per running meter of fabric. Measurements in
// centimeters, price per meter in the smallest currency unit.
func (p *PricingService) CurtainPrice(widthCM, heightCM int64, pricePerMeter int64) (int64, error) {
	if widthCM <= 0 || heightCM <= 0 {
		return 0, fmt.Errorf("width and height must be positive")
	}
	if pricePerMeter <= 0 {
		return 0, fmt.Errorf("price per meter must be positive")
	}

	fabricWidthCM := widthCM * curtainFullness
	return roundHalfUpDiv(fabricWidthCM*pricePerMeter, 100), nil
}

// VitrasePrice quotes a sheer layer the same way as a curtain but without the
// fullness multiplier.
func (p *PricingService) VitrasePrice(widthCM, heightCM int64, pricePerMeter int64) (int64, error) {
	if widthCM <= 0 || heightCM <= 0 {
		return 0, fmt.Errorf("width and height must be positive")
	}
	if pricePerMeter <= 0 {
		return 0, fmt.Errorf("price per meter must be positive")
	}

	return roundHalfUpDiv(widthCM*pricePerMeter, 100), nil
}

// BlindPrice quotes a roller blind by window area, priced per square meter.
func (p *PricingService) BlindPrice(widthCM, heightCM int64, pricePerSquareMeter int64) (int64, error) {
	if widthCM <= 0 || heightCM <= 0 {
		return 0, fmt.Errorf("width and height must be positive")
	}
	if pricePerSquareMeter <= 0 {
		return 0, fmt.Errorf("price per square meter must be positive")
	}

	areaCM2 := widthCM * heightCM
	return roundHalfUpDiv(areaCM2*pricePerSquareMeter, 10000), nil
}

// Quote dispatches on calculator type. Curtain and vitrase interpret price as
// per running meter, blind as per square meter.
func (p *PricingService) Quote(calculatorType string, widthCM, heightCM, unitPrice int64) (int64, error) {
	switch calculatorType {
	case CalculatorTypeCurtain:
		return p.CurtainPrice(widthCM, heightCM, unitPrice)
	case CalculatorTypeVitrase:
		return p.VitrasePrice(widthCM, heightCM, unitPrice)
	case CalculatorTypeBlind:
		return p.BlindPrice(widthCM, heightCM, unitPrice)
	default:
		return 0, fmt.Errorf("unknown calculator type: %s", calculatorType)
	}
}
