// Package schemas declares the acceptance rules for every admin form.
package schemas

import (
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/models"
)

var carStatuses = []string{
	string(models.CarStatusNew),
	string(models.CarStatusUsed),
	string(models.CarStatusCertified),
}

// price accepts numbers or numeric strings; "" means not entered.
func price(description string) validation.Property {
	return validation.Property{
		Type:          "number",
		Description:   description,
		Coerce:        true,
		EmptyAsAbsent: true,
		Minimum:       validation.Float(0),
	}
}

func reference(description string) validation.Property {
	return validation.Property{
		Type:          "string",
		Description:   description,
		Coerce:        true,
		TrimSpace:     true,
		EmptyAsAbsent: true,
		MinLength:     validation.Int(1),
	}
}

func flag(description string) validation.Property {
	return validation.Property{Type: "boolean", Description: description, Coerce: true, EmptyAsAbsent: true}
}

// offerPriceRule requires an offer price no higher than the list price when the car
// is on offer.
func offerPriceRule(v map[string]interface{}) []validation.ValidationError {
	isOffer, _ := v["isOffer"].(bool)
	if !isOffer {
		return nil
	}
	offer, ok := v["offerPrice"].(float64)
	if !ok {
		if _, present := v["offerPrice"]; present {
			return nil // type error already reported
		}
		return []validation.ValidationError{{
			Field:   "offerPrice",
			Message: "required field missing",
			Code:    validation.CodeRequired,
		}}
	}
	if listPrice, ok := v["price"].(float64); ok && offer > listPrice {
		return []validation.ValidationError{{
			Field:   "offerPrice",
			Message: "offer price must not exceed the listing price",
			Code:    validation.CodeMaximum,
			Params:  map[string]interface{}{"max": listPrice},
		}}
	}
	return nil
}

// AddCarMainDetailsSchema is the first draft step.
var AddCarMainDetailsSchema = validation.JSONSchema{
	Name: "add-car-main-details",
	Type: "object",
	Properties: map[string]validation.Property{
		"name":        validation.Bilingual("car name"),
		"description": validation.Bilingual("car description"),
		"brandId":     reference("brand id"),
		"modelId":     reference("model id"),
		"price":       price("listing price"),
		"isOffer":     flag("listing is on offer"),
		"offerPrice":  price("offer price"),
		"status": {
			Type:          "string",
			EmptyAsAbsent: true,
			Enum:          carStatuses,
		},
		"isPublished": flag("listing is visible"),
		"videoUrl": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			Format:        "url",
		},
		"iframe": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			MaxLength:     validation.Int(2048),
		},
	},
	Required: []string{"name", "description", "brandId", "modelId", "price"},
	Rules:    []validation.Rule{offerPriceRule},
}

// AddCarV2Schema is the single-page variant of the main details form.
var AddCarV2Schema = validation.JSONSchema{
	Name: "add-car-v2",
	Type: "object",
	Properties: map[string]validation.Property{
		"name":        validation.Bilingual("car name"),
		"description": validation.Bilingual("car description"),
		"brandId":     reference("brand id"),
		"modelId":     reference("model id"),
		"price":       price("listing price"),
		"isOffer":     flag("listing is on offer"),
		"offerPrice":  price("offer price"),
		"isPublished": flag("listing is visible"),
	},
	Required: []string{"name", "description", "brandId", "modelId", "price"},
	Rules:    []validation.Rule{offerPriceRule},
}

func variantName() validation.Property {
	return validation.Property{Type: "string", TrimSpace: true, EmptyAsAbsent: true, MinLength: validation.Int(1)}
}

var variantValue = validation.Property{
	Type: "object",
	Properties: map[string]validation.Property{
		"nameEn": variantName(),
		"nameAr": variantName(),
	},
	Required: []string{"nameEn", "nameAr"},
}

var subVariant = validation.Property{
	Type: "object",
	Properties: map[string]validation.Property{
		"nameEn": variantName(),
		"nameAr": variantName(),
		"values": {Type: "array", Items: &variantValue},
	},
	Required: []string{"nameEn", "nameAr"},
}

var variant = validation.Property{
	Type: "object",
	Properties: map[string]validation.Property{
		"nameEn":      variantName(),
		"nameAr":      variantName(),
		"subVariants": {Type: "array", Items: &subVariant},
	},
	Required: []string{"nameEn", "nameAr"},
}

// AddCarSpecsSchema is the variant tree of the second draft step.
var AddCarSpecsSchema = validation.JSONSchema{
	Name: "add-car-specs",
	Type: "object",
	Properties: map[string]validation.Property{
		"variants": {Type: "array", Items: &variant, MinItems: validation.Int(1)},
	},
	Required: []string{"variants"},
}

// AddCarSeoSchema is the last draft step.
var AddCarSeoSchema = validation.JSONSchema{
	Name: "add-car-seo",
	Type: "object",
	Properties: map[string]validation.Property{
		"metaTitle":       validation.Bilingual("meta title"),
		"metaDescription": validation.Bilingual("meta description"),
		"slug": {
			Type:          "string",
			TrimSpace:     true,
			EmptyAsAbsent: true,
			Pattern:       validation.String(`^[a-z0-9]+(?:-[a-z0-9]+)*$`),
			MaxLength:     validation.Int(120),
		},
		"keywords": {
			Type:  "array",
			Items: &validation.Property{Type: "string", TrimSpace: true, EmptyAsAbsent: true},
		},
	},
	Required: []string{"metaTitle", "metaDescription", "slug"},
}
