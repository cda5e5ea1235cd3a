package services

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
)

const previewLength = 50

// SyncService backs the device and clipboard endpoints. It validates each
// request and delegates to the registry and the clipboard store.
type SyncService struct {
	devices *DeviceRegistry
	clips   *ClipboardStore
}

func NewSyncService(devices *DeviceRegistry, clips *ClipboardStore) *SyncService {
	return &SyncService{devices: devices, clips: clips}
}

func (s *SyncService) UpdateDeviceLabel(ctx context.Context, req *dto.UpdateDeviceLabelRequest) (*dto.UpdateDeviceLabelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.devices.Rename(ctx, req.Username, req.DeviceID, req.NewLabel); err != nil {
		return nil, err
	}
	return &dto.UpdateDeviceLabelResponse{
		Success:  true,
		Message:  "Device label updated",
		DeviceID: req.DeviceID,
		NewLabel: req.NewLabel,
	}, nil
}

func (s *SyncService) RemoveDevice(ctx context.Context, req *dto.RemoveDeviceRequest) (*dto.RemoveDeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n, err := s.devices.Remove(ctx, req.Username, req.DeviceID)
	if err != nil {
		return nil, err
	}
	return &dto.RemoveDeviceResponse{
		Success:          true,
		Message:          "Device removed",
		DeviceID:         req.DeviceID,
		RemovedClipCount: n,
	}, nil
}

func (s *SyncService) GetDevices(username string) (*dto.DevicesResponse, error) {
	if username == "" {
		return nil, apperr.Invalid("missing username parameter")
	}
	devices, err := s.devices.List(username)
	if err != nil {
		return nil, err
	}
	return &dto.DevicesResponse{Success: true, Devices: devices, Count: len(devices)}, nil
}

func (s *SyncService) AddClipboard(ctx context.Context, req *dto.AddClipboardRequest) (*dto.AddClipboardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rec, err := s.clips.Append(ctx, req.Username, req.Content, req.DeviceID, req.ContentType)
	if err != nil {
		return nil, err
	}
	clips, err := s.clips.List(req.Username)
	if err != nil {
		return nil, err
	}
	return &dto.AddClipboardResponse{
		Success:    true,
		Message:    "Clipboard content added",
		ClipID:     rec.ClipID,
		Clipboards: clips,
	}, nil
}

func (s *SyncService) GetClipboards(username string) (*dto.ClipboardsResponse, error) {
	if username == "" {
		return nil, apperr.Invalid("missing username parameter")
	}
	clips, err := s.clips.List(username)
	if err != nil {
		return nil, err
	}
	return &dto.ClipboardsResponse{Success: true, Clipboards: clips, Count: len(clips)}, nil
}

func (s *SyncService) DeleteClipboard(ctx context.Context, req *dto.DeleteClipboardRequest) (*dto.DeleteClipboardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	removed, remaining, err := s.clips.Remove(ctx, req.Username, req.ClipID)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteClipboardResponse{
		Success:        true,
		Message:        fmt.Sprintf("Clipboard content deleted: '%s'", removed.Preview(previewLength)),
		ClipID:         req.ClipID,
		RemainingClips: remaining,
	}, nil
}

func (s *SyncService) ClearClipboards(ctx context.Context, req *dto.ClearClipboardsRequest) (*dto.ClearClipboardsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n, err := s.clips.Clear(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	return &dto.ClearClipboardsResponse{Success: true, Message: "Clipboard cleared", DeletedCount: n}, nil
}

