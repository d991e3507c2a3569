package metrics

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// CloudWatchAPI defines the CloudWatch client interface used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Emitter sends roster metrics to CloudWatch.
type Emitter struct {
	client    CloudWatchAPI
	namespace string
}

// NewEmitter creates a CloudWatch metrics emitter.
func NewEmitter(cfg aws.Config, namespace string) *Emitter {
	return &Emitter{
		client:    cloudwatch.NewFromConfig(cfg),
		namespace: namespace,
	}
}

// EmitRun publishes roster statistics for one run, dimensioned by action.
func (e *Emitter) EmitRun(ctx context.Context, result *models.RunResult) error {
	if result == nil {
		return nil
	}
	dims := []types.Dimension{{Name: aws.String("Action"), Value: aws.String(result.Action)}}
	s := result.Summary

	metrics := []types.MetricDatum{
		metricDatum("People", s.People, dims),
		metricDatum("Teams", s.Teams, dims),
		metricDatum("Committers", s.Committers, dims),
		metricDatum("Leaders", s.Leaders, dims),
		metricDatum("Confirmed", s.Confirmed, dims),
		metricDatum("Unassigned", s.Unassigned, dims),
		metricDatum("TeamsWithoutLeader", s.TeamsWithoutLeader, dims),
		metricDatum("Repairs", result.Report.Repairs(), dims),
		metricDatum("Saved", boolCount(result.Saved), dims),
	}
	if inf := result.Inference; inf != nil {
		metrics = append(metrics,
			metricDatum("NamesProposed", inf.Proposed, dims),
			metricDatum("NamesApplied", inf.Applied, dims),
			metricDatum("NamesSkipped", inf.Skipped, dims),
		)
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(e.namespace),
		MetricData: metrics,
	})
	if err != nil {
		return fmt.Errorf("putting metric data: %w", err)
	}
	return nil
}

func metricDatum(name string, value int, dims []types.Dimension) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: dims,
		Unit:       types.StandardUnitCount,
		Value:      aws.Float64(float64(value)),
	}
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
