package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/aws/aws-sdk-go-v2/service/scheduler/types"
	"github.com/sirupsen/logrus"
)

const scheduleGroup = "default"

func scheduleName(chatID string) string {
	return fmt.Sprintf("daily-review-%s", chatID)
}

// parsePushTime accepts "HH:MM" and an optional IANA timezone after it.
func (h *Handler) parsePushTime(arg string) (pushTime, timezone string, err error) {
	fields := strings.Fields(arg)
	if len(fields) == 0 || len(fields) > 2 {
		return "", "", errors.New("usage: /remind HH:MM [timezone]")
	}

	t, err := time.Parse("15:04", fields[0])
	if err != nil {
		return "", "", fmt.Errorf("invalid time format: %s", fields[0])
	}

	timezone = h.cfg.DefaultTimezone
	if len(fields) == 2 {
		timezone = fields[1]
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return "", "", fmt.Errorf("invalid timezone: %s", timezone)
	}
	return t.Format("15:04"), timezone, nil
}

// dailyCronExpression is evaluated by the scheduler in the schedule's own
// timezone, so no UTC conversion is needed.
func dailyCronExpression(pushTime string) (string, error) {
	t, err := time.Parse("15:04", pushTime)
	if err != nil {
		return "", fmt.Errorf("invalid time format: %s", pushTime)
	}
	return fmt.Sprintf("cron(%d %d * * ? *)", t.Minute(), t.Hour()), nil
}

func (h *Handler) handleRemind(ctx context.Context, chatID, arg string) string {
	if !h.cfg.Reminders() {
		return "❌ Review reminders are not configured."
	}

	pushTime, timezone, err := h.parsePushTime(arg)
	if err != nil {
		return "❌ " + err.Error()
	}

	if err := h.scheduleReview(ctx, chatID, pushTime, timezone); err != nil {
		h.logger.WithError(err).Error("Failed to create schedule")
		return "❌ Failed to set the reminder, please try again later."
	}

	if err := h.reminderRepo.SaveReminderConfig(chatID, pushTime, timezone, true); err != nil {
		h.logger.WithError(err).Error("Failed to save reminder config")
	}

	h.triggerImmediateReview(ctx, chatID)

	return fmt.Sprintf("⏰ Daily review set for %s (%s).", pushTime, timezone)
}

func (h *Handler) handleShowReminder(chatID string) string {
	config, err := h.reminderRepo.GetReminderConfig(chatID)
	if err != nil {
		return "❌ Failed to read the reminder, please try again later."
	}
	if config == nil || !config.Enabled {
		return "No review reminder set. Use /remind HH:MM to add one."
	}
	return fmt.Sprintf("⏰ Daily review at %s (%s).\nLast updated: %s", config.PushTime, config.Timezone, config.UpdatedAt)
}

func (h *Handler) handleUnremind(ctx context.Context, chatID string) string {
	if !h.cfg.Reminders() {
		return "❌ Review reminders are not configured."
	}

	if err := h.deleteExistingSchedule(ctx, chatID); err != nil {
		return "❌ Failed to remove the reminder, please try again later."
	}

	config, err := h.reminderRepo.GetReminderConfig(chatID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get reminder config")
	} else if config != nil {
		if err := h.reminderRepo.SaveReminderConfig(chatID, config.PushTime, config.Timezone, false); err != nil {
			h.logger.WithError(err).Error("Failed to disable reminder config")
		}
	}
	return "🔕 Review reminder removed."
}

// triggerImmediateReview asynchronously invokes the reminder Lambda once.
func (h *Handler) triggerImmediateReview(ctx context.Context, chatID string) {
	payloadBytes, err := json.Marshal(map[string]string{
		"userId": chatID,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal lambda invoke payload")
		return
	}

	_, err = h.lambdaClient.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(h.cfg.ReminderFunctionName),
		InvocationType: "Event",
		Payload:        payloadBytes,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to invoke reminder lambda")
		return
	}

	h.logger.WithField("chatId", chatID).Info("Successfully triggered immediate review")
}

func (h *Handler) deleteExistingSchedule(ctx context.Context, chatID string) error {
	name := scheduleName(chatID)

	_, err := h.schedulerClient.GetSchedule(ctx, &scheduler.GetScheduleInput{
		Name:      aws.String(name),
		GroupName: aws.String(scheduleGroup),
	})
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get existing schedule")
		return fmt.Errorf("failed to get existing schedule: %w", err)
	}

	_, err = h.schedulerClient.DeleteSchedule(ctx, &scheduler.DeleteScheduleInput{
		Name:      aws.String(name),
		GroupName: aws.String(scheduleGroup),
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete existing schedule")
		return fmt.Errorf("failed to delete existing schedule: %w", err)
	}

	h.logger.WithField("scheduleName", name).Info("Successfully deleted existing schedule")
	return nil
}

func (h *Handler) scheduleReview(ctx context.Context, chatID, pushTime, timezone string) error {
	if err := h.deleteExistingSchedule(ctx, chatID); err != nil {
		return err
	}

	expression, err := dailyCronExpression(pushTime)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"userId": chatID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	name := scheduleName(chatID)
	output, err := h.schedulerClient.CreateSchedule(ctx, &scheduler.CreateScheduleInput{
		Name:      aws.String(name),
		GroupName: aws.String(scheduleGroup),
		FlexibleTimeWindow: &types.FlexibleTimeWindow{
			Mode: types.FlexibleTimeWindowModeOff,
		},
		ScheduleExpression:         aws.String(expression),
		ScheduleExpressionTimezone: aws.String(timezone),
		Target: &types.Target{
			Arn:     aws.String(h.cfg.ReminderFunctionArn),
			RoleArn: aws.String(h.cfg.SchedulerRoleArn),
			Input:   aws.String(string(payload)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"scheduleName": name,
		"expression":   expression,
		"timezone":     timezone,
		"scheduleArn":  aws.ToString(output.ScheduleArn),
	}).Info("Successfully created EventBridge schedule")
	return nil
}
