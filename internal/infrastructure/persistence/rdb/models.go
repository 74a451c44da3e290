package rdb

import "time"

// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain层实体不依赖GORM，Repository负责两者之间的转换
// 3. 主键统一为UUID字符串（varchar(36)），由domain工厂方法生成

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"size:100;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// UserModel GORM用户模型
type UserModel struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Email     string `gorm:"uniqueIndex;size:100;not null"`
	Password  string `gorm:"size:255;not null"` // bcrypt哈希
	Name      string `gorm:"size:100;not null"`
	Role      string `gorm:"size:20;not null;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 1. Title有唯一索引，重复插入由数据库拒绝
// 2. AuthorID外键指向authors，作者被引用时禁止删除
// 3. Likes一对多，删除图书时级联删除点赞
// 4. created_at+id组合索引服务于列表排序
type BookModel struct {
	ID        string      `gorm:"primaryKey;type:varchar(36);index:idx_books_list,priority:2"`
	Title     string      `gorm:"uniqueIndex;size:100;not null"`
	Rating    int         `gorm:"not null"`
	Price     float64     `gorm:"not null"`
	AuthorID  string      `gorm:"type:varchar(36);index;not null"`
	Author    AuthorModel `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Likes     []LikeModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"index:idx_books_list,priority:1"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// LikeModel 点赞记录（多对多中间表，带独立主键）
// (book_id, user_id)不设唯一约束：允许重复点赞
type LikeModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	BookID    string    `gorm:"type:varchar(36);index;not null"`
	UserID    string    `gorm:"type:varchar(36);index;not null"`
	User      UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName 指定表名
func (LikeModel) TableName() string {
	return "book_likes"
}
