package book

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "book-service"

// Service 图书领域服务接口
// 设计说明:
// 1. 每个操作对应一次逻辑上的存储调用
// 2. 只翻译自己认识的存储层条件(唯一约束、记录不存在)，其余错误原样向上传递
// 3. 写操作成功后发布领域事件，发布失败只记录日志
type Service interface {
	// GetAll 返回全部图书(含作者)，不分页
	GetAll(ctx context.Context) ([]*Book, error)

	// GetByID 根据ID获取图书
	// 不存在时返回404错误
	GetByID(ctx context.Context, id string) (*Book, error)

	// Create 创建图书
	// 书名重复返回409，其他失败(包括作者不存在)原样返回
	Create(ctx context.Context, data Data) (*Book, error)

	// UpdateByID 整体替换图书字段
	// 不做存在性检查，由调用方(Handler)预先确认
	UpdateByID(ctx context.Context, id string, data Data) (*Book, error)

	// DeleteByID 删除图书
	// 与UpdateByID相同，存在性由调用方预先确认
	DeleteByID(ctx context.Context, id string) error

	// LikeBook 用户点赞图书，返回刷新了LikedBy的图书
	// 图书或用户不存在返回400
	LikeBook(ctx context.Context, bookID, userID string) (*Book, error)
}

// service 领域服务实现
type service struct {
	repo      Repository
	tx        Transactor
	publisher Publisher
	logger    *zap.Logger
}

// NewService 创建图书领域服务
func NewService(repo Repository, tx Transactor, publisher Publisher, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		logger:    logger.Named("book"),
	}
}

func (s *service) GetAll(ctx context.Context) ([]*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.GetAll")
	defer span.End()

	books, err := s.repo.FindAll(ctx)
	tracing.RecordError(span, err)
	return books, err
}

func (s *service) GetByID(ctx context.Context, id string) (*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.GetByID")
	defer span.End()

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrBookNotFound(id)
		}
		tracing.RecordError(span, err)
		return nil, err
	}
	return b, nil
}

// Create 创建图书
// 创建与回读在同一事务中，返回值包含关联的作者
func (s *service) Create(ctx context.Context, data Data) (*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.Create")
	defer span.End()

	b := NewBook(data)

	var created *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}
		var err error
		created, err = s.repo.FindByID(ctx, b.ID)
		return err
	})
	metrics.RecordBookOperation("create", err)
	if err != nil {
		if errors.Is(err, ErrUniqueViolation) {
			return nil, ErrNameTaken
		}
		tracing.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, EventCreated, newEvent(EventCreated, created))
	return created, nil
}

// UpdateByID 整体替换
// 更新时的唯一约束冲突不做翻译，按内部错误处理
func (s *service) UpdateByID(ctx context.Context, id string, data Data) (*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.UpdateByID")
	defer span.End()

	b := &Book{ID: id}
	b.Replace(data)

	var updated *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		var err error
		updated, err = s.repo.FindByID(ctx, id)
		return err
	})
	metrics.RecordBookOperation("update", err)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, EventUpdated, newEvent(EventUpdated, updated))
	return updated, nil
}

func (s *service) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.DeleteByID")
	defer span.End()

	err := s.repo.Delete(ctx, id)
	metrics.RecordBookOperation("delete", err)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	s.publish(ctx, EventDeleted, Event{Type: EventDeleted, BookID: id, OccurredAt: nowUTC()})
	return nil
}

// LikeBook 点赞
// 同一用户重复点赞会追加新记录
func (s *service) LikeBook(ctx context.Context, bookID, userID string) (*Book, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BookService.LikeBook")
	defer span.End()

	var liked *Book
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.AddLike(ctx, NewLike(bookID, userID)); err != nil {
			return err
		}
		var err error
		liked, err = s.repo.FindByID(ctx, bookID)
		return err
	})
	metrics.RecordBookOperation("like", err)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrBookOrUserMissing
		}
		tracing.RecordError(span, err)
		return nil, err
	}

	evt := newEvent(EventLiked, liked)
	evt.UserID = userID
	s.publish(ctx, EventLiked, evt)
	return liked, nil
}

// publish 发布事件，失败只记录日志
func (s *service) publish(ctx context.Context, routingKey string, evt Event) {
	if err := s.publisher.Publish(ctx, routingKey, evt); err != nil {
		s.logger.Warn("发布图书事件失败",
			zap.String("routing_key", routingKey),
			zap.String("book_id", evt.BookID),
			zap.String("trace_id", tracing.ExtractTraceID(ctx)),
			zap.Error(err),
		)
	}
}
