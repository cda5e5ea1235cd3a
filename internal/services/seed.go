package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"github.com/google/uuid"
)

const (
	DemoUsername = "testuser"
	DemoPassword = "test123"
)

func demoTime(s string) time.Time {
	t, err := time.ParseInLocation(time.DateTime, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedDemo creates the demo account with three devices and five clipboard
// records. It does nothing if the account already exists.
func (s *AuthService) SeedDemo(ctx context.Context) error {
	user, err := s.newUser(DemoUsername, DemoPassword)
	if err != nil {
		return err
	}
	if _, err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create demo user: %w", err)
	}

	devices := []models.Device{
		{DeviceID: "device-001", Label: "我的手机", OS: "Android", IPAddress: "192.168.1.100",
			FirstLogin: demoTime("2023-01-01 10:00:00"), LastLogin: demoTime("2023-01-10 15:30:00")},
		{DeviceID: "device-002", Label: "我的平板", OS: "iOS", IPAddress: "192.168.1.101",
			FirstLogin: demoTime("2023-01-05 09:15:00"), LastLogin: demoTime("2023-01-09 14:20:00")},
		{DeviceID: "device-003", Label: "我的电脑", OS: "Windows", IPAddress: "192.168.1.102",
			FirstLogin: demoTime("2023-01-08 13:45:00"), LastLogin: demoTime("2023-01-10 11:10:00")},
	}
	clips := []models.ClipboardRecord{
		{Content: "这是一条重要的笔记", ContentType: "text/plain", DeviceID: "device-001",
			CreatedAt: demoTime("2023-01-01 10:00:00"), LastModified: demoTime("2023-01-02 11:00:00")},
		{Content: "https://example.com", ContentType: "text/uri-list", DeviceID: "device-002",
			CreatedAt: demoTime("2023-01-03 14:00:00"), LastModified: demoTime("2023-01-03 14:00:00")},
		{Content: "购物清单:\n1. 牛奶\n2. 面包\n3. 鸡蛋", ContentType: "text/plain", DeviceID: "device-003",
			CreatedAt: demoTime("2023-01-05 09:00:00"), LastModified: demoTime("2023-01-05 09:15:00")},
		{Content: "会议时间: 明天下午3点", ContentType: "text/plain", DeviceID: "device-001",
			CreatedAt: demoTime("2023-01-07 13:00:00"), LastModified: demoTime("2023-01-07 13:00:00")},
		{Content: "项目截止日期: 2023-01-15", ContentType: "text/plain", DeviceID: "device-002",
			CreatedAt: demoTime("2023-01-08 10:00:00"), LastModified: demoTime("2023-01-09 16:00:00")},
	}

	err = s.store.Update(ctx, DemoUsername, func(tx *store.Tx) error {
		for _, d := range devices {
			d.ID = uuid.New()
			tx.PutDevice(d)
		}
		for _, c := range clips {
			c.ClipID = uuid.NewString()
			tx.AppendClip(c)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	slog.Info("demo account seeded", "username", DemoUsername, "devices", len(devices), "clips", len(clips))
	return nil
}
