package v1

import (
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestSetConditionInsertsNew(t *testing.T) {
	var s RTResourceStatus
	now := metav1.Now()
	s.SetCondition(ConditionProgressing, ConditionTrue, "SpecChanged", "spec changed", now)

	cond := s.GetCondition(ConditionProgressing)
	if cond == nil {
		t.Fatal("expected condition to be present")
	}
	if cond.Status != ConditionTrue {
		t.Fatalf("expected status True, got %s", cond.Status)
	}
}

func TestSetConditionUpsertsWithoutBumpingUnchangedStatus(t *testing.T) {
	var s RTResourceStatus
	t1 := metav1.NewTime(metav1.Now().Add(-time.Hour))
	s.SetCondition(ConditionReady, ConditionFalse, "r1", "m1", t1)

	t2 := metav1.Now()
	s.SetCondition(ConditionReady, ConditionFalse, "r2", "m2", t2)

	cond := s.GetCondition(ConditionReady)
	if cond.LastTransitionTime != t1 {
		t.Fatal("expected LastTransitionTime to stay at the original transition when status is unchanged")
	}
	if cond.Reason != "r2" || cond.Message != "m2" {
		t.Fatalf("expected reason/message to refresh, got %q/%q", cond.Reason, cond.Message)
	}
}

func TestSetConditionBumpsOnStatusChange(t *testing.T) {
	var s RTResourceStatus
	t1 := metav1.NewTime(metav1.Now().Add(-time.Hour))
	s.SetCondition(ConditionReady, ConditionFalse, "r1", "m1", t1)

	t2 := metav1.Now()
	s.SetCondition(ConditionReady, ConditionTrue, "r2", "m2", t2)

	cond := s.GetCondition(ConditionReady)
	if cond.LastTransitionTime != t2 {
		t.Fatal("expected LastTransitionTime to bump on status change")
	}
}
