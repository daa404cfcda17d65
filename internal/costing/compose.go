package costing

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"mutfak-backend/internal/models"
)

// ID -> kayıt indeksleri. Her toplama çalıştırmasında bir kez kurulur,
// defter döngüleri liste taraması yerine map üzerinden çözer.
type (
	ProductIndex map[uint]models.Product
	RecipeIndex  map[uint]models.Recipe
	DishIndex    map[uint]models.Dish
)

func NewProductIndex(products []models.Product) ProductIndex {
	idx := make(ProductIndex, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}

func NewRecipeIndex(recipes []models.Recipe) RecipeIndex {
	idx := make(RecipeIndex, len(recipes))
	for _, r := range recipes {
		idx[r.ID] = r
	}
	return idx
}

func NewDishIndex(dishes []models.Dish) DishIndex {
	idx := make(DishIndex, len(dishes))
	for _, d := range dishes {
		idx[d.ID] = d
	}
	return idx
}

// IngredientKind: Tabak malzemesinin ayrıştırılmış türü.
// ProductID/RecipeID çiftinden tam olarak biri doluysa ilgili tür, aksi halde
// IngredientInvalid döner; motor geçersiz satırı sıfır katkıyla atlar.
type IngredientKind int

const (
	IngredientInvalid IngredientKind = iota
	IngredientProduct
	IngredientRecipe
)

// IngredientRefOf: DishIngredient'ın hangi kataloğa işaret ettiğini çözer.
func IngredientRefOf(ing models.DishIngredient) (IngredientKind, uint) {
	switch {
	case ing.ProductID != nil && ing.RecipeID == nil:
		return IngredientProduct, *ing.ProductID
	case ing.RecipeID != nil && ing.ProductID == nil:
		return IngredientRecipe, *ing.RecipeID
	default:
		return IngredientInvalid, 0
	}
}

// RealRecipeTotalCost: Reçetenin fire + ağırlık düzeltmeli gerçek toplam maliyeti.
//
// Her malzeme için RealUnitCost * miktar hesaplanır; malzeme kendi satır bazlı
// düzeltmesini taşıyorsa önce o satıra uygulanır ("bu malzeme doğrarken %10
// küçülür"), toplam en son reçete düzeyindeki düzeltmeye bölünür ("bütün parti
// pişerken %15 çeker"). Sıra önemli: satır düzeltmesi satır başına, reçete
// düzeltmesi toplama uygulanır.
//
// Silinen ürüne işaret eden malzeme sıfır katkı yapar (loglanır); geçersiz fire
// veya düzeltme değerleri ise hatadır.
func RealRecipeTotalCost(r models.Recipe, products ProductIndex) (float64, error) {
	if r.WeightAdjustmentPct <= -100 {
		return 0, fmt.Errorf("reçete %q: %w", r.Name, ErrWeightAdjustmentLow)
	}

	sum := 0.0
	for _, ing := range r.Ingredients {
		p, ok := products[ing.ProductID]
		if !ok {
			// Silinmiş ürün: tarihi kayıtlar mutabakat edilebilir kalmalı
			log.Warn().Uint("recipe_id", r.ID).Uint("product_id", ing.ProductID).
				Msg("reçete malzemesi silinmiş ürüne işaret ediyor, katkı 0 sayıldı")
			continue
		}

		unitCost, err := RealUnitCost(p)
		if err != nil {
			return 0, err
		}
		line := unitCost * ing.Quantity

		if ing.WeightAdjustmentPct != nil {
			if *ing.WeightAdjustmentPct <= -100 {
				return 0, fmt.Errorf("reçete %q, ürün %q satırı: %w", r.Name, p.Name, ErrWeightAdjustmentLow)
			}
			line /= 1 + *ing.WeightAdjustmentPct/100
		}

		sum += line
	}

	return sum / (1 + r.WeightAdjustmentPct/100), nil
}

// DishRealFoodCost: Tabağın gerçek (fire/ağırlık düzeltmeli) maliyeti.
// Ürün satırları RealUnitCost * miktar, reçete satırları RealRecipeTotalCost *
// miktar olarak toplanır (reçete maliyeti bitmiş birim başına kabul edilir).
// Tabağın sakladığı nominal TotalCost'tan farklıdır; o düzeltmeleri bilmez.
func DishRealFoodCost(d models.Dish, products ProductIndex, recipes RecipeIndex) (float64, error) {
	sum := 0.0
	for _, ing := range d.Ingredients {
		kind, id := IngredientRefOf(ing)
		switch kind {
		case IngredientProduct:
			p, ok := products[id]
			if !ok {
				log.Warn().Uint("dish_id", d.ID).Uint("product_id", id).
					Msg("tabak malzemesi silinmiş ürüne işaret ediyor, katkı 0 sayıldı")
				continue
			}
			unitCost, err := RealUnitCost(p)
			if err != nil {
				return 0, err
			}
			sum += unitCost * ing.Quantity

		case IngredientRecipe:
			r, ok := recipes[id]
			if !ok {
				log.Warn().Uint("dish_id", d.ID).Uint("recipe_id", id).
					Msg("tabak malzemesi silinmiş reçeteye işaret ediyor, katkı 0 sayıldı")
				continue
			}
			recipeCost, err := RealRecipeTotalCost(r, products)
			if err != nil {
				return 0, err
			}
			sum += recipeCost * ing.Quantity

		case IngredientInvalid:
			log.Warn().Uint("dish_id", d.ID).Uint("ingredient_id", ing.ID).
				Msg("tabak malzemesinde ürün/reçete referansı tutarsız, katkı 0 sayıldı")
		}
	}
	return sum, nil
}

// ScaledIngredient: Ölçeklenen reçetedeki bir malzemenin iki ayrı miktarı.
// RawQuantity satın alınması gereken ham miktar, FinishedQuantity tabağa giden
// bitmiş miktar. İkisini tek sayıya indirmek klasik hatadır; ikisi de döner.
type ScaledIngredient struct {
	ProductID        uint    `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Unit             string  `json:"unit"`
	RawQuantity      float64 `json:"raw_quantity"`
	FinishedQuantity float64 `json:"finished_quantity"`
}

type ScaledRecipe struct {
	RecipeID       uint               `json:"recipe_id"`
	RecipeName     string             `json:"recipe_name"`
	TargetQuantity float64            `json:"target_quantity"`
	Ingredients    []ScaledIngredient `json:"ingredients"`
}

// ScaleRecipeToYield: "Şu kadar bitmiş ürün istersem ne alayım?" hesabı.
// Ham miktar = malzeme miktarı * hedef / (1 + reçete düzeltmesi/100),
// bitmiş miktar = malzeme miktarı * hedef.
func ScaleRecipeToYield(r models.Recipe, products ProductIndex, targetQuantity float64) (ScaledRecipe, error) {
	if r.WeightAdjustmentPct <= -100 {
		return ScaledRecipe{}, fmt.Errorf("reçete %q: %w", r.Name, ErrWeightAdjustmentLow)
	}

	out := ScaledRecipe{
		RecipeID:       r.ID,
		RecipeName:     r.Name,
		TargetQuantity: targetQuantity,
		Ingredients:    make([]ScaledIngredient, 0, len(r.Ingredients)),
	}

	yield := 1 + r.WeightAdjustmentPct/100
	for _, ing := range r.Ingredients {
		si := ScaledIngredient{
			ProductID:        ing.ProductID,
			RawQuantity:      ing.Quantity * targetQuantity / yield,
			FinishedQuantity: ing.Quantity * targetQuantity,
		}
		if p, ok := products[ing.ProductID]; ok {
			si.ProductName = p.Name
			si.Unit = p.Unit
		}
		out.Ingredients = append(out.Ingredients, si)
	}

	return out, nil
}
