package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Contract describes the parts of the page under test the harness relies on.
// Selectors use playwright selector syntax.
type Contract struct {
	PageTitle string        `yaml:"page_title"`
	Page      PageContract  `yaml:"page"`
	Menu      MenuContract  `yaml:"menu"`
	Table     TableContract `yaml:"table"`
	Author    AuthorDialog  `yaml:"author_dialog"`
	Book      BookDialog    `yaml:"book_dialog"`
}

// PageContract holds the always-present page controls
type PageContract struct {
	Heading     string `yaml:"heading"`
	SearchInput string `yaml:"search_input"`
}

// MenuContract describes the two-level menu
type MenuContract struct {
	Button      string `yaml:"button"`
	Dropdown    string `yaml:"dropdown"`
	Item        string `yaml:"item"`
	ActiveClass string `yaml:"active_class"`

	AddAuthor string `yaml:"add_author"`
	AddBook   string `yaml:"add_book"`
	Authors   string `yaml:"authors"`
	Books     string `yaml:"books"`
}

// TableContract describes the shared results table
type TableContract struct {
	Header       string `yaml:"header"`
	HeaderCell   string `yaml:"header_cell"`
	Body         string `yaml:"body"`
	Row          string `yaml:"row"`
	Cell         string `yaml:"cell"`
	EditAction   string `yaml:"edit_action"`
	DeleteAction string `yaml:"delete_action"`

	EmailColumn  string `yaml:"email_column"`
	YearColumn   string `yaml:"year_column"`
	AuthorColumn string `yaml:"author_column"`
}

// AuthorDialog describes the author modal
type AuthorDialog struct {
	Container string `yaml:"container"`
	Save      string `yaml:"save"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Age       string `yaml:"age"`
	Email     string `yaml:"email"`
}

// BookDialog describes the book modal
type BookDialog struct {
	Container    string `yaml:"container"`
	Save         string `yaml:"save"`
	Title        string `yaml:"title"`
	Year         string `yaml:"year"`
	AuthorSelect string `yaml:"author_select"`
}

// DefaultContract returns the contract of the library page
func DefaultContract() Contract {
	return Contract{
		PageTitle: "Библиотека",
		Page: PageContract{
			Heading:     "h1",
			SearchInput: "#mainInput",
		},
		Menu: MenuContract{
			Button:      ".menu-btn",
			Dropdown:    "#dropdown",
			Item:        "#dropdown .dropdown-item",
			ActiveClass: "active",
			AddAuthor:   "Додати автора",
			AddBook:     "Додати книгу",
			Authors:     "Автори",
			Books:       "Книги",
		},
		Table: TableContract{
			Header:       "#tableHeader",
			HeaderCell:   "#tableHeader th",
			Body:         "#tableBody",
			Row:          "#tableBody tr",
			Cell:         "td",
			EditAction:   ".edit-btn",
			DeleteAction: ".del-btn",
			EmailColumn:  "Email",
			YearColumn:   "Рік",
			AuthorColumn: "Автор",
		},
		Author: AuthorDialog{
			Container: "#authorModal",
			Save:      ".save-btn",
			FirstName: "#authFirstName",
			LastName:  "#authLastName",
			Age:       "#authAge",
			Email:     "#authEmail",
		},
		Book: BookDialog{
			Container:    "#bookModal",
			Save:         ".save-btn",
			Title:        "#bookTitle",
			Year:         "#bookYear",
			AuthorSelect: "#bookAuthorSelect",
		},
	}
}

// LoadContract reads a YAML contract from path on top of the defaults.
// An empty path returns the defaults.
func LoadContract(path string) (Contract, error) {
	contract := DefaultContract()
	if path == "" {
		return contract, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return contract, fmt.Errorf("failed to read contract: %w", err)
	}
	if err := ParseContract(data, &contract); err != nil {
		return contract, err
	}
	return contract, nil
}

// ParseContract unmarshals data over contract and validates the result
func ParseContract(data []byte, contract *Contract) error {
	if err := yaml.Unmarshal(data, contract); err != nil {
		return fmt.Errorf("failed to parse contract: %w", err)
	}

	required := map[string]string{
		"page.search_input":       contract.Page.SearchInput,
		"menu.button":             contract.Menu.Button,
		"menu.dropdown":           contract.Menu.Dropdown,
		"menu.item":               contract.Menu.Item,
		"table.header":            contract.Table.Header,
		"table.row":               contract.Table.Row,
		"author_dialog.container": contract.Author.Container,
		"book_dialog.container":   contract.Book.Container,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("contract key %s is required", key)
		}
	}
	return nil
}
