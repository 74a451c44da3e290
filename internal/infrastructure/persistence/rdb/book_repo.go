package rdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/author"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一约束、记录不存在两种条件包装为book.ErrUniqueViolation、book.ErrRecordNotFound
// 4. 其余数据库错误包装为内部错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// withRelations 预加载作者与点赞记录(点赞按时间先后)
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Likes", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// FindAll 查询全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	err := withRelations(r.getDB(ctx)).Order("created_at ASC, id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to query books")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := withRelations(r.getDB(ctx)).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, book.ErrRecordNotFound)
		}
		return nil, apperrors.Wrap(err, "Failed to query book")
	}
	return toBookEntity(&model), nil
}

// Create 创建图书
// 作者存在性检查与插入在同一事务中
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &AuthorModel{}, b.AuthorID)
		if err != nil {
			return apperrors.Wrap(err, "Failed to query author")
		}
		if !ok {
			return fmt.Errorf("author %s: %w", b.AuthorID, book.ErrRecordNotFound)
		}

		model := toBookModel(b)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			switch {
			case isDuplicateError(err):
				return fmt.Errorf("title %q: %w", b.Title, book.ErrUniqueViolation)
			case isForeignKeyError(err):
				return fmt.Errorf("author %s: %w", b.AuthorID, book.ErrRecordNotFound)
			}
			return apperrors.Wrap(err, "Failed to create book")
		}

		b.CreatedAt = model.CreatedAt
		b.UpdatedAt = model.UpdatedAt
		return nil
	})
}

// Update 整体替换图书字段
// 唯一约束冲突不翻译，按内部错误返回
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &BookModel{}, b.ID)
		if err != nil {
			return apperrors.Wrap(err, "Failed to query book")
		}
		if !ok {
			return fmt.Errorf("book %s: %w", b.ID, book.ErrRecordNotFound)
		}

		// map形式更新，保证零值字段也被写入
		err = tx.Model(&BookModel{ID: b.ID}).Omit(clause.Associations).Updates(map[string]interface{}{
			"title":      b.Title,
			"rating":     b.Rating,
			"price":      b.Price,
			"author_id":  b.AuthorID,
			"updated_at": b.UpdatedAt,
		}).Error
		if err != nil {
			return apperrors.Wrap(err, "Failed to update book")
		}
		return nil
	})
}

// Delete 删除图书及其点赞(硬删除)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&LikeModel{}).Error; err != nil {
			return apperrors.Wrap(err, "Failed to delete likes")
		}

		result := tx.Where("id = ?", id).Delete(&BookModel{})
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "Failed to delete book")
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("book %s: %w", id, book.ErrRecordNotFound)
		}
		return nil
	})
}

// AddLike 追加点赞记录
func (r *bookRepository) AddLike(ctx context.Context, like *book.Like) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range []struct {
			model interface{}
			name  string
			id    string
		}{
			{&BookModel{}, "book", like.BookID},
			{&UserModel{}, "user", like.UserID},
		} {
			ok, err := exists(tx, ref.model, ref.id)
			if err != nil {
				return apperrors.Wrapf(err, "Failed to query %s", ref.name)
			}
			if !ok {
				return fmt.Errorf("%s %s: %w", ref.name, ref.id, book.ErrRecordNotFound)
			}
		}

		model := &LikeModel{
			ID:        like.ID,
			BookID:    like.BookID,
			UserID:    like.UserID,
			CreatedAt: like.CreatedAt,
		}
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("like: %w", book.ErrRecordNotFound)
			}
			return apperrors.Wrap(err, "Failed to like book")
		}
		return nil
	})
}

func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:        b.ID,
		Title:     b.Title,
		Rating:    b.Rating,
		Price:     b.Price,
		AuthorID:  b.AuthorID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:        model.ID,
		Title:     model.Title,
		Rating:    model.Rating,
		Price:     model.Price,
		AuthorID:  model.AuthorID,
		LikedBy:   make([]string, 0, len(model.Likes)),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Author.ID != "" {
		b.Author = toAuthorEntity(&model.Author)
	}
	for _, like := range model.Likes {
		b.LikedBy = append(b.LikedBy, like.UserID)
	}
	return b
}

func toAuthorEntity(model *AuthorModel) *author.Author {
	return &author.Author{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
