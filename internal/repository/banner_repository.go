package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"banneradmin/internal/model"
)

// ErrBannerNotFound 记录不存在
var ErrBannerNotFound = errors.New("banner not found")

// CreateBannersTableSQL banners 表结构，texts 以JSON数组保存
const CreateBannersTableSQL = `
CREATE TABLE IF NOT EXISTS banners (
	id          VARCHAR(36)   NOT NULL PRIMARY KEY,
	grp         VARCHAR(100)  NOT NULL,
	name        VARCHAR(255)  NOT NULL,
	link        VARCHAR(2048) NOT NULL,
	sort_order  INT           NOT NULL DEFAULT 0,
	texts       TEXT          NOT NULL,
	image_name  VARCHAR(255)  NOT NULL DEFAULT '',
	image_data  LONGTEXT      NOT NULL,
	status      VARCHAR(32)   NOT NULL,
	create_date VARCHAR(10)   NOT NULL,
	created_at  TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const bannerColumns = "id, grp, name, link, sort_order, texts, image_name, image_data, status, create_date"

// bannerRow banners 表的一行
type bannerRow struct {
	ID         string `db:"id"`
	Group      string `db:"grp"`
	Name       string `db:"name"`
	Link       string `db:"link"`
	Order      int    `db:"sort_order"`
	Texts      string `db:"texts"`
	ImageName  string `db:"image_name"`
	ImageData  string `db:"image_data"`
	Status     string `db:"status"`
	CreateDate string `db:"create_date"`
}

func newBannerRow(b model.Banner) (bannerRow, error) {
	texts := b.Texts
	if texts == nil {
		texts = []string{}
	}
	data, err := json.Marshal(texts)
	if err != nil {
		return bannerRow{}, fmt.Errorf("encode texts: %w", err)
	}
	return bannerRow{
		ID:         b.ID,
		Group:      b.Group,
		Name:       b.Name,
		Link:       b.Link,
		Order:      b.Order,
		Texts:      string(data),
		ImageName:  b.Image.Name,
		ImageData:  b.Image.Data,
		Status:     string(b.Status),
		CreateDate: b.CreateDate,
	}, nil
}

func (r bannerRow) toModel() (model.Banner, error) {
	texts := []string{}
	if r.Texts != "" {
		if err := json.Unmarshal([]byte(r.Texts), &texts); err != nil {
			return model.Banner{}, fmt.Errorf("decode texts of banner %s: %w", r.ID, err)
		}
	}
	return model.Banner{
		ID:         r.ID,
		Group:      r.Group,
		Name:       r.Name,
		Link:       r.Link,
		Order:      r.Order,
		Texts:      texts,
		Image:      model.Image{Name: r.ImageName, Data: r.ImageData},
		Status:     model.Status(r.Status),
		CreateDate: r.CreateDate,
	}, nil
}

// BannerRepository banner存储库
type BannerRepository struct {
	db *sqlx.DB
}

// NewBannerRepository 创建banner存储库实例
func NewBannerRepository(db *sqlx.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

// EnsureSchema 建表
func (r *BannerRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, CreateBannersTableSQL)
	return err
}

// List 获取全部banner（含暂停状态）
func (r *BannerRepository) List(ctx context.Context) ([]model.Banner, error) {
	var rows []bannerRow
	query := "SELECT " + bannerColumns + " FROM banners ORDER BY sort_order DESC, id ASC"
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	banners := make([]model.Banner, 0, len(rows))
	for _, row := range rows {
		b, err := row.toModel()
		if err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, nil
}

// GetByID 根据ID获取banner
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*model.Banner, error) {
	var row bannerRow
	query := "SELECT " + bannerColumns + " FROM banners WHERE id = ?"
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}
	b, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create 插入banner，ID由调用方生成
func (r *BannerRepository) Create(ctx context.Context, b *model.Banner) error {
	row, err := newBannerRow(*b)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO banners (` + bannerColumns + `)
		VALUES (:id, :grp, :name, :link, :sort_order, :texts, :image_name, :image_data, :status, :create_date)
	`
	_, err = r.db.NamedExecContext(ctx, query, row)
	return err
}

// Update 整体更新banner
func (r *BannerRepository) Update(ctx context.Context, b *model.Banner) error {
	row, err := newBannerRow(*b)
	if err != nil {
		return err
	}
	query := `
		UPDATE banners SET
			grp = :grp, name = :name, link = :link, sort_order = :sort_order, texts = :texts,
			image_name = :image_name, image_data = :image_data, status = :status, create_date = :create_date
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// MySQL 在值未变化时也返回0行，需要确认记录是否存在
	exists, err := r.exists(ctx, b.ID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBannerNotFound
	}
	return nil
}

// Delete 删除banner
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM banners WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBannerNotFound
	}
	return nil
}

func (r *BannerRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM banners WHERE id = ?", id); err != nil {
		return false, err
	}
	return count > 0, nil
}
