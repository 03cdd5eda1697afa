package providers

import (
	"plantao/internal/models"
	"plantao/internal/store"
	"plantao/internal/structures"
)

func NewNormalizerProvider(conf *structures.Config) *models.Normalizer {
	sc := conf.Record.SupportContact
	contact := models.DefaultSupportContact()
	if sc != (structures.SupportContactConfig{}) {
		contact = models.SupportContact{
			Name:     sc.Name,
			Whatsapp: sc.Whatsapp,
			Phone:    sc.Phone,
			Email:    sc.Email,
			Note:     sc.Note,
		}
	}
	return models.NewNormalizer(contact, nil)
}

func NewRecordStoreProvider(conf *structures.Config, normalizer *models.Normalizer, logger Logger) *store.RecordStore {
	s := store.NewRecordStore(RecordPath(conf), normalizer, nil)
	logger.Infof(TypeStore, "Record file: %s", s.Path())
	return s
}
