package services_test

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/SscSPs/cheque_printer/internal/apperrors"
	"github.com/SscSPs/cheque_printer/internal/core/domain"
	"github.com/SscSPs/cheque_printer/internal/core/services"
	"github.com/SscSPs/cheque_printer/internal/dto"
	"github.com/SscSPs/cheque_printer/internal/render"
	"github.com/SscSPs/cheque_printer/internal/repositories/memory"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureService_DefaultsAndOrder(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSignatureService(memory.NewStore())

	first, err := svc.CreateSignature(ctx, dto.CreateSignatureRequest{Name: "Director", Path: "sig/director.png"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.Opacity)
	assert.Equal(t, 1.0, first.Thickness)
	assert.Equal(t, 1.0, first.Scale)

	_, err = svc.CreateSignature(ctx, dto.CreateSignatureRequest{Name: "Manager", Path: "sig/manager.png", Opacity: 0.8}, "admin")
	require.NoError(t, err)

	sigs, err := svc.ListSignatures(ctx)
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, "Director", sigs[0].Name)

	_, err = svc.GetSignature(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// signedBatch prints one cheque and returns the width in points of the drawn signature, or 0.
func signedBatch(t *testing.T, store *memory.Store, assetDir string, opts ...services.BatchOption) float64 {
	t.Helper()
	engine, err := render.NewEngine(render.Options{})
	require.NoError(t, err)

	var captured []render.Page
	writer := writerFunc(func(pages []render.Page) { captured = pages })
	svc := services.NewBatchPrintService(store.Provider(), services.NewLeafAllocator(store),
		services.Renderer{Engine: engine, Images: render.NewImageProcessor(render.FileSource{BaseDir: assetDir}), Writer: writer},
		&fakeSubmitter{}, opts...)

	seedQueue(t, store, "payee")
	_, err = svc.PrintBatch(context.Background(), domain.BatchPrintRequest{TemplateID: "tpl-1"})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	sigs := captured[0].Field(render.FieldSignature)
	if len(sigs) == 0 {
		return 0
	}
	return sigs[0].Width
}

func TestBatchPrint_SignatureFallbackChain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(200, 50, color.Black), filepath.Join(dir, "a.png")))
	require.NoError(t, imaging.Save(imaging.New(200, 50, color.Black), filepath.Join(dir, "b.png")))

	newStore := func() *memory.Store {
		store := memory.NewStore()
		seedBook(t, store, "b1", 1, 100, 1, true)
		seedTemplate(t, store, "tpl-1")
		return store
	}
	ctx := context.Background()

	t.Run("no signature anywhere prints unsigned", func(t *testing.T) {
		assert.Zero(t, signedBatch(t, newStore(), dir))
	})

	t.Run("first stored signature", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.SaveSignature(ctx, domain.SignatureAsset{SignatureID: "s1", Path: "a.png", Opacity: 1, Thickness: 1, Scale: 1}))
		require.NoError(t, store.SaveSignature(ctx, domain.SignatureAsset{SignatureID: "s2", Path: "b.png", Opacity: 1, Thickness: 1, Scale: 2}))
		width := signedBatch(t, store, dir)
		assert.InDelta(t, 40*2.83465, width, 1e-6)
	})

	t.Run("configured signature wins", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.SaveSignature(ctx, domain.SignatureAsset{SignatureID: "s1", Path: "a.png", Opacity: 1, Thickness: 1, Scale: 1}))
		require.NoError(t, store.SaveSignature(ctx, domain.SignatureAsset{SignatureID: "s2", Path: "b.png", Opacity: 1, Thickness: 1, Scale: 2}))
		width := signedBatch(t, store, dir, services.WithActiveSignatureID("s2"))
		assert.InDelta(t, 80*2.83465, width, 1e-6)
	})

	t.Run("template static signature last", func(t *testing.T) {
		store := newStore()
		tpl, err := store.FindTemplateByID(ctx, "tpl-1")
		require.NoError(t, err)
		tpl.Fields.SignatureImagePath = "a.png"
		require.NoError(t, store.UpdateTemplate(ctx, *tpl))
		assert.NotZero(t, signedBatch(t, store, dir, services.WithActiveSignatureID("gone")))
	})
}
