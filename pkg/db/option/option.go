package option

import "gorm.io/gorm"

// QueryOption customizes a repository query.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type limitOption struct{ limit int }

func (o limitOption) Apply(db *gorm.DB) *gorm.DB { return db.Limit(o.limit) }

func WithLimit(limit int) QueryOption { return limitOption{limit: limit} }

type offsetOption struct{ offset int }

func (o offsetOption) Apply(db *gorm.DB) *gorm.DB { return db.Offset(o.offset) }

func WithOffset(offset int) QueryOption { return offsetOption{offset: offset} }

type orderOption struct{ expr string }

func (o orderOption) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.expr) }

func WithOrder(expr string) QueryOption { return orderOption{expr: expr} }
