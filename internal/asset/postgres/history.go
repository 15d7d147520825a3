package postgres

import (
	"github.com/frahmantamala/asset-management/internal/asset"
	pcDatamodel "github.com/frahmantamala/asset-management/internal/core/datamodel/pc"
	"gorm.io/gorm"
)

// HistoryRepository persists the append-only audit trail. There is no update
// or delete path on purpose.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) asset.HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(h *pcDatamodel.PcHistory) error {
	return r.db.Create(h).Error
}

func (r *HistoryRepository) GetByPcID(pcID int64) ([]*asset.History, error) {
	var dms []pcDatamodel.PcHistory
	err := r.db.Where("pc_id = ?", pcID).
		Order("created_at DESC, id DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return fromDataModels(dms), nil
}

func (r *HistoryRepository) GetBySerialPrefix(prefix string) ([]*asset.History, error) {
	var dms []pcDatamodel.PcHistory
	err := r.db.Where("serial_number LIKE ?", prefix+"%").
		Order("created_at DESC, id DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return fromDataModels(dms), nil
}

func fromDataModels(dms []pcDatamodel.PcHistory) []*asset.History {
	history := make([]*asset.History, len(dms))
	for i := range dms {
		history[i] = asset.FromHistoryDataModel(&dms[i])
	}
	return history
}
