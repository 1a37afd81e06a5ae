package changelog

import (
	"time"

	"sasocial/pkg/models"

	"go.uber.org/zap"
)

// ChangeLog records append-only audit notes (alteracoes) alongside
// administrator actions. Writes are best-effort: a failed entry is logged and
// never fails the action it annotates.
type ChangeLog struct {
	repo EntryWriter
	log  *zap.Logger
}

type EntryWriter interface {
	InsertEntry(entry models.ChangeLogEntry) error
}

func NewChangeLog(repo EntryWriter, log *zap.Logger) *ChangeLog {
	return &ChangeLog{repo: repo, log: log}
}

func (c *ChangeLog) Record(changeType, description, actorName, actorNumber string) {
	now := time.Now()
	entry := models.ChangeLogEntry{
		Type:        changeType,
		Description: description,
		ActorName:   actorName,
		ActorNumber: actorNumber,
		Date:        now.Format("02/01/2006"),
		Time:        now.Format("15:04"),
	}

	if err := c.repo.InsertEntry(entry); err != nil {
		c.log.Warn("unable to record change log entry",
			zap.String("type", changeType), zap.Error(err))
	}
}
