package e

import "fmt"

var (
	// Ошибки доступа и разбора каталога
	ErrCatalogAccess = fmt.Errorf("catalog file is not accessible")
	ErrCatalogParse  = fmt.Errorf("catalog file is not valid json")
	ErrCatalogShape  = fmt.Errorf("catalog has unexpected shape")

	// Ошибки формы документа
	ErrNotAnObject      = fmt.Errorf("value is not a json object")
	ErrProductsMissing  = fmt.Errorf("products field is missing")
	ErrProductsNotArray = fmt.Errorf("products field is not an array")
	ErrProductNotObject = fmt.Errorf("product entry is not an object")
	ErrColorsNotArray   = fmt.Errorf("colors field is not an array")
	ErrColorNotString   = fmt.Errorf("color candidate is not a string")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrEmptyBrokers         = fmt.Errorf("no kafka brokers configured")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
