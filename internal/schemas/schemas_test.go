package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-admin/internal/common/i18n"
	"dealer-admin/internal/common/validation"
	"dealer-admin/internal/models"
)

func validMainDetails() map[string]interface{} {
	return map[string]interface{}{
		"name":        map[string]interface{}{"ar": "كامري", "en": "Camry"},
		"description": map[string]interface{}{"ar": "سيدان", "en": "Sedan"},
		"brandId":     "2",
		"modelId":     "1",
		"price":       "125000",
		"status":      "new",
		"isPublished": true,
	}
}

func TestAddCarMainDetailsSchema(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]interface{})
		wantField string
	}{
		{
			name: "empty arabic name",
			mutate: func(m map[string]interface{}) {
				m["name"] = map[string]interface{}{"ar": "", "en": "Car"}
			},
			wantField: "name.ar",
		},
		{
			name: "empty english description",
			mutate: func(m map[string]interface{}) {
				m["description"] = map[string]interface{}{"ar": "و", "en": " "}
			},
			wantField: "description.en",
		},
		{
			name:      "negative price",
			mutate:    func(m map[string]interface{}) { m["price"] = -1 },
			wantField: "price",
		},
		{
			name:      "unknown status",
			mutate:    func(m map[string]interface{}) { m["status"] = "salvage" },
			wantField: "status",
		},
		{
			name:      "offer without offer price",
			mutate:    func(m map[string]interface{}) { m["isOffer"] = true },
			wantField: "offerPrice",
		},
		{
			name: "offer above list price",
			mutate: func(m map[string]interface{}) {
				m["isOffer"] = "true"
				m["offerPrice"] = "130000"
			},
			wantField: "offerPrice",
		},
		{
			name:      "bad video url",
			mutate:    func(m map[string]interface{}) { m["videoUrl"] = "not a url" },
			wantField: "videoUrl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMainDetails()
			tt.mutate(in)
			res := validation.ValidateInput(in, AddCarMainDetailsSchema)
			assert.False(t, res.Valid)
			assert.True(t, res.HasErrors(tt.wantField), res.GetErrorMessages())
		})
	}
}

func TestAddCarMainDetailsSchema_DecodesTyped(t *testing.T) {
	in := validMainDetails()
	in["isOffer"] = true
	in["offerPrice"] = "99000"
	in["brandId"] = 2.0

	var info models.CarMainInfo
	require.NoError(t, validation.Check(in, AddCarMainDetailsSchema, i18n.English, &info))

	assert.Equal(t, "Camry", info.Name.En)
	assert.Equal(t, "كامري", info.Name.Ar)
	assert.Equal(t, "2", info.BrandID)
	assert.Equal(t, 125000.0, info.Price)
	require.NotNil(t, info.OfferPrice)
	assert.Equal(t, 99000.0, *info.OfferPrice)
	assert.Equal(t, models.CarStatusNew, info.Status)
}

func TestAddCarV2Schema_Price(t *testing.T) {
	base := func(price interface{}) map[string]interface{} {
		return map[string]interface{}{
			"price":       price,
			"modelId":     "1",
			"brandId":     "2",
			"name":        map[string]interface{}{"en": "A", "ar": "ب"},
			"description": map[string]interface{}{"en": "d", "ar": "و"},
		}
	}

	res := validation.ValidateInput(base(""), AddCarV2Schema)
	require.False(t, res.Valid)
	errs := res.GetErrorsForField("price")
	require.Len(t, errs, 1)
	assert.Equal(t, validation.CodeRequired, errs[0].Code)

	res = validation.ValidateInput(base("0"), AddCarV2Schema)
	require.True(t, res.Valid, res.GetErrorMessages())
	assert.Equal(t, 0.0, res.Value["price"])

	res = validation.ValidateInput(base("-10"), AddCarV2Schema)
	assert.True(t, res.HasErrors("price"))
}

func TestAddCarSpecsSchema(t *testing.T) {
	valid := map[string]interface{}{
		"variants": []interface{}{
			map[string]interface{}{
				"nameEn": "Engine", "nameAr": "المحرك",
				"subVariants": []interface{}{
					map[string]interface{}{
						"nameEn": "Cylinders", "nameAr": "الأسطوانات",
						"values": []interface{}{
							map[string]interface{}{"nameEn": "4", "nameAr": "٤"},
						},
					},
				},
			},
		},
	}
	var specs models.CarSpecs
	require.NoError(t, validation.Check(valid, AddCarSpecsSchema, i18n.English, &specs))
	assert.Equal(t, 1, specs.CountValues())
	assert.Equal(t, "الأسطوانات", specs.Variants[0].SubVariants[0].NameAr)

	res := validation.ValidateInput(map[string]interface{}{
		"variants": []interface{}{
			map[string]interface{}{"nameEn": "", "nameAr": "المحرك"},
		},
	}, AddCarSpecsSchema)
	assert.True(t, res.HasErrors("variants[0].nameEn"), res.GetErrorMessages())

	res = validation.ValidateInput(map[string]interface{}{"variants": []interface{}{}}, AddCarSpecsSchema)
	assert.True(t, res.HasErrors("variants"))
}

func TestAddCarSeoSchema(t *testing.T) {
	in := map[string]interface{}{
		"metaTitle":       map[string]interface{}{"ar": "عنوان", "en": "Title"},
		"metaDescription": map[string]interface{}{"ar": "وصف", "en": "Description"},
		"slug":            "toyota-camry-2024",
		"keywords":        []interface{}{"sedan", " ", "toyota"},
	}
	var seo models.CarSeo
	require.NoError(t, validation.Check(in, AddCarSeoSchema, i18n.English, &seo))
	assert.Equal(t, []string{"sedan", "toyota"}, seo.Keywords)

	in["slug"] = "Toyota Camry"
	res := validation.ValidateInput(in, AddCarSeoSchema)
	assert.True(t, res.HasErrors("slug"))
}

func TestNotificationSchema(t *testing.T) {
	in := map[string]interface{}{
		"title":   map[string]interface{}{"ar": "عرض", "en": "Offer"},
		"message": map[string]interface{}{"ar": "خصم", "en": "Discount"},
		"date":    "2024-06-01",
		"type":    "offer",
	}
	var n models.Notification
	require.NoError(t, validation.Check(in, NotificationSchema, i18n.English, &n))
	assert.Equal(t, models.NotificationOffer, n.Type)

	in["message"] = map[string]interface{}{"ar": "", "en": "Discount"}
	in["type"] = "promo"
	res := validation.ValidateInput(in, NotificationSchema)
	assert.True(t, res.HasErrors("message.ar"))
	assert.True(t, res.HasErrors("type"))
}

func TestTestDriveStatusSchema(t *testing.T) {
	assert.True(t, validation.ValidateInput(map[string]interface{}{"status": "confirmed"}, TestDriveStatusSchema).Valid)
	assert.False(t, validation.ValidateInput(map[string]interface{}{"status": "lost"}, TestDriveStatusSchema).Valid)
	assert.False(t, validation.ValidateInput(map[string]interface{}{"status": ""}, TestDriveStatusSchema).Valid)
}

func TestNewsSchema(t *testing.T) {
	res := validation.ValidateInput(map[string]interface{}{
		"title":   map[string]interface{}{"ar": "خبر", "en": "News"},
		"content": map[string]interface{}{"ar": "", "en": "Body"},
	}, NewsSchema)
	assert.True(t, res.HasErrors("content.ar"))

	localized := res.Localize(i18n.Arabic)
	assert.Equal(t, "هذا الحقل مطلوب", localized.GetErrorsForField("content.ar")[0].Message)
}
