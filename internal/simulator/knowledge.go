package simulator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fina-agent/fina-console/internal/domain"
	"github.com/fina-agent/fina-console/internal/domain/entity"
)

// StorageMode describes where ingested chunks live
const StorageMode = "Ephemeral Cloud RAG (Session Scoped)"

var pdfMagic = []byte("%PDF-")

// Ingest stores a PDF in the user's retrieval scope. Chunks are counted the way a
// recursive splitter with the configured size and overlap would produce them.
func (e *Engine) Ingest(ctx context.Context, userID, filename string, r io.Reader) (*entity.IngestResult, error) {
	name := filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, domain.NewInvalidInputError("Only PDF files are allowed")
	}

	reader := r
	if e.uploadLimit > 0 {
		reader = io.LimitReader(r, e.uploadLimit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("read upload: %w", err))
	}
	if e.uploadLimit > 0 && int64(len(data)) > e.uploadLimit {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("file exceeds the %s upload limit", e.cfg.MaxUploadSize))
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, &domain.DomainError{
			Code:    "INGESTION_ERROR",
			Message: "Failed to process PDF: missing PDF header",
			Err:     domain.ErrInvalidInput,
		}
	}

	chunks := e.countChunks(len(data))
	doc := &entity.Document{
		UserID:     userID,
		Filename:   name,
		Size:       int64(len(data)),
		Chunks:     chunks,
		IngestedAt: e.now(),
	}
	if err := e.docs.Add(ctx, doc); err != nil {
		return nil, err
	}

	e.metrics.ChunksIngested(chunks)
	e.logger.Info("document ingested", "user_id", userID, "filename", name, "bytes", len(data), "chunks", chunks)

	return &entity.IngestResult{
		Status:          "success",
		Filename:        name,
		ChunksProcessed: chunks,
		StorageMode:     StorageMode,
	}, nil
}

func (e *Engine) countChunks(size int) int {
	step := e.cfg.ChunkSize - e.cfg.ChunkOverlap
	if size <= e.cfg.ChunkSize || step <= 0 {
		return 1
	}
	return 1 + (size-e.cfg.ChunkSize+step-1)/step
}

// Cleanup drops the user's ephemeral data
func (e *Engine) Cleanup(ctx context.Context, userID string) error {
	docs, err := e.docs.DeleteByUser(ctx, userID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	threads, err := e.threads.DeleteByUser(ctx, userID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	e.logger.Info("user data cleaned up", "user_id", userID, "documents", docs, "threads", threads)
	return nil
}

// ThreadStatus returns the audit view of a thread
func (e *Engine) ThreadStatus(ctx context.Context, threadID string) (*entity.ThreadStatus, error) {
	t, err := e.threads.Get(ctx, threadID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, threadNotFound(threadID, err)
		}
		return nil, err
	}

	usage := t.Usage
	return &entity.ThreadStatus{
		ThreadID:      t.ID,
		Status:        t.Status(),
		FinalDecision: t.FinalDecision,
		HistoryCount:  len(t.History),
		History:       t.History,
		Usage:         &usage,
	}, nil
}

// Health reports the simulator's status
func (e *Engine) Health(ctx context.Context) *entity.Health {
	vectorDB := "empty"
	if n, err := e.docs.Count(ctx); err == nil && n > 0 {
		vectorDB = "exists"
	}
	return &entity.Health{
		Status:         "online",
		NodeA:          "healthy",
		NodeBConnected: true,
		APIKeysSet:     map[string]bool{"simulator": true},
		VectorDB:       vectorDB,
	}
}
