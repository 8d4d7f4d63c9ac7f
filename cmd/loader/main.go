package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/core/pantry"
	"recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/core/user"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/infrastructure/database"
	"recipe-suggester/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

func main() {
	ingredientsPath := flag.String("ingredients", "", "path to the ingredients CSV")
	recipesPath := flag.String("recipes", "", "path to the recipes CSV")
	imageDir := flag.String("images", "", "directory holding recipe images referenced by the CSV")
	flag.Parse()

	if *ingredientsPath == "" && *recipesPath == "" {
		fmt.Println("Usage: loader -ingredients file.csv [-recipes file.csv] [-images dir]")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := db.AutoMigrate(
		&user.User{},
		&catalog.Ingredient{},
		&recipe.Recipe{},
		&recipe.Review{},
		&recipe.Note{},
		&recipe.Favorite{},
		&pantry.Item{},
	); err != nil {
		common.LogFatal("Failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	catalogSvc := catalog.NewService(db, nil)
	recipeSvc := recipe.NewService(db, catalogSvc, nil)

	if *ingredientsPath != "" {
		n, err := loadIngredients(ctx, catalogSvc, *ingredientsPath)
		if err != nil {
			common.LogFatal("Ingredient import failed", zap.Error(err))
		}
		common.LogInfo("Ingredients imported", zap.Int("count", n))
	}

	if *recipesPath != "" {
		n, err := loadRecipes(ctx, recipeSvc, *recipesPath, *imageDir)
		if err != nil {
			common.LogFatal("Recipe import failed", zap.Error(err))
		}
		common.LogInfo("Recipes imported", zap.Int("count", n))
	}
}

// loadIngredients reads rows of name plus six dietary flag columns.
// Existing names are skipped rather than treated as errors so the
// loader can be rerun.
func loadIngredients(ctx context.Context, svc *catalog.Service, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := columnIndex(header)

	imported := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		ing := catalog.Ingredient{
			Name:           field(row, col, "name"),
			Unit:           field(row, col, "unit"),
			Description:    field(row, col, "description"),
			IsMeat:         boolField(row, col, "is_meat"),
			IsDairy:        boolField(row, col, "is_dairy"),
			ContainsGluten: boolField(row, col, "contains_gluten"),
			IsVeganSafe:    boolField(row, col, "is_vegan_safe"),
			IsNutFree:      boolField(row, col, "is_nut_free"),
			IsKetoFriendly: boolField(row, col, "is_keto_friendly"),
		}
		if ing.Name == "" {
			continue
		}

		if err := svc.Create(ctx, &ing); err != nil {
			if errors.Is(err, common.ErrIngredientExists) {
				continue
			}
			return imported, fmt.Errorf("create ingredient %q: %w", ing.Name, err)
		}
		imported++
	}
	return imported, nil
}

// loadRecipes reads Title, Instructions, Image_Name and
// Cleaned_Ingredients columns. Ingredient ids and dietary tags are
// derived on create, the same path user submissions take.
func loadRecipes(ctx context.Context, svc *recipe.Service, path, imageDir string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	col := columnIndex(header)

	imported := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		title := field(row, col, "title")
		if title == "" {
			continue
		}

		rec := recipe.Recipe{
			Title:          title,
			Instructions:   field(row, col, "instructions"),
			IngredientText: cleanedIngredients(field(row, col, "cleaned_ingredients")),
			Image:          findImage(imageDir, field(row, col, "image_name")),
		}

		if err := svc.Create(ctx, &rec); err != nil {
			common.LogWarn("skipping recipe",
				zap.String("title", title),
				zap.Error(err),
			)
			continue
		}
		imported++
	}
	return imported, nil
}

// cleanedIngredients turns the CSV's bracketed list format into one
// ingredient line per row, which is what the resolver expects.
func cleanedIngredients(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return ""
	}

	parts := strings.Split(raw, "',")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), "'\"")
		if p != "" {
			lines = append(lines, p)
		}
	}
	return strings.Join(lines, "\n")
}

// findImage locates the image file for a base name, trying the common
// extensions. Returns empty when the file is missing so the import
// still succeeds.
func findImage(dir, baseName string) string {
	if dir == "" || baseName == "" {
		return ""
	}
	for _, ext := range imageExtensions {
		name := baseName + ext
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return name
		}
	}
	return ""
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func boolField(row []string, col map[string]int, name string) bool {
	v := strings.ToLower(field(row, col, name))
	return v == "true" || v == "1" || v == "t" || v == "yes"
}
