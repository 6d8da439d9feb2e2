/*
category.go - Net-worth categories and transactions

PURPOSE:
  A household's net worth is partitioned into named categories (cash,
  brokerage, mortgage, ...). Categories start from configured assets;
  during a run each category is tracked as a mutable running balance that
  transactions apply to.

KEY CONCEPTS:
  - Asset:         a named starting amount inside a category
  - Category:      static configuration, name + assets
  - CategoryValue: the running balance during a simulation
  - Tx:            one flow's effect on one category in one month
*/
package finance

// Asset is a named starting holding within a category.
type Asset struct {
	Name  string
	Value Money
}

// Category is the static configuration of one net-worth bucket.
type Category struct {
	Name   string
	Assets []Asset
}

// Value opens a running balance seeded with the sum of the category's
// assets.
func (c Category) Value() *CategoryValue {
	var total Money
	for _, a := range c.Assets {
		total = total.Add(a.Value)
	}
	return &CategoryValue{name: c.Name, value: total}
}

// CategoryValue is a category's balance as it evolves through a run.
type CategoryValue struct {
	name  string
	value Money
}

func (cv *CategoryValue) Name() string { return cv.name }
func (cv *CategoryValue) Value() Money { return cv.value }

// Apply folds one transaction's net amount into the balance.
func (cv *CategoryValue) Apply(tx Tx) {
	cv.value = cv.value.Add(tx.Amount)
}

// Tx is the evaluated effect of one flow in one month: the net amount
// credited to the category plus the tax detail behind it.
type Tx struct {
	Time   Time
	Amount Money
	Tax    TaxTx
}
