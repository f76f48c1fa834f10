/*
Copyright 2017 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command rtresource-controller reconciles RTResources against the live
// pod fleet, priority-first. Its startup order mirrors
// original_source/controller/src/main.rs: build the API client, build the
// shared supervisor state, start the watchers, bootstrap and run the
// autoscaling supervisor, start the status reconciler, then block until
// signalled.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	corescheme "k8s.io/client-go/kubernetes/scheme"
	typedcorev1 "k8s.io/client-go/kubernetes/typed/core/v1"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/record"
	"k8s.io/klog/v2"

	"rtcritical/rtresource-controller/internal/config"
	"rtcritical/rtresource-controller/internal/priority"
	"rtcritical/rtresource-controller/internal/queue"
	"rtcritical/rtresource-controller/internal/reconcile"
	"rtcritical/rtresource-controller/internal/statusreconciler"
	"rtcritical/rtresource-controller/internal/supervisor"
	"rtcritical/rtresource-controller/internal/watchers"
	"rtcritical/rtresource-controller/internal/worker"
	rtv1 "rtcritical/rtresource-controller/pkg/apis/rtgroup/v1"
	rtclient "rtcritical/rtresource-controller/pkg/client"
)

const controllerAgentName = "rtresource-controller"

// newEventRecorder wires a record.EventRecorder the way the teacher's
// NewController does, extended with rtv1's scheme so Events can reference
// an RTResource as their involved object, not just corev1 kinds.
func newEventRecorder(kubeClient kubernetes.Interface) record.EventRecorder {
	eventScheme := runtime.NewScheme()
	_ = corescheme.AddToScheme(eventScheme)
	_ = rtv1.AddToScheme(eventScheme)

	broadcaster := record.NewBroadcaster()
	broadcaster.StartStructuredLogging(0)
	broadcaster.StartRecordingToSink(&typedcorev1.EventSinkImpl{Interface: kubeClient.CoreV1().Events("")})
	return broadcaster.NewRecorder(eventScheme, corev1.EventSource{Component: controllerAgentName})
}

const queueCapacity = 2000 // spec.md §6: 500 (watchers) / 2000 (pod watcher); one shared queue sized to the larger.

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	cfg := config.Load()
	klog.InfoS("starting rtresource-controller", "config", cfg.String())

	kubeconfig, err := clientcmd.BuildConfigFromFlags("", "")
	if err != nil {
		klog.ErrorS(err, "fatal-bootstrap: cannot build kubeconfig")
		os.Exit(1)
	}

	kubeClient, err := kubernetes.NewForConfig(kubeconfig)
	if err != nil {
		klog.ErrorS(err, "fatal-bootstrap: cannot build kube client")
		os.Exit(1)
	}

	rtClient, err := rtclient.NewForConfig(kubeconfig)
	if err != nil {
		klog.ErrorS(err, "fatal-bootstrap: cannot build RTResource client")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := queue.NewRegistry()
	q := registry.Open(cfg.EventQueue, queueCapacity)
	defer q.Close()

	state := supervisor.NewState(cfg)
	action := &reconcile.Action{
		RTResources: rtClient,
		Pods:        kubeClient,
		Scheduler:   reconcile.RandomScheduler,
		Recorder:    newEventRecorder(kubeClient),
	}

	resourceWatcher := &watchers.ResourceWatcher{RTResources: rtClient, Queue: q}
	podWatcher := &watchers.PodWatcher{KubeClient: kubeClient, Queue: q}
	go resourceWatcher.Run(ctx)
	go podWatcher.Run(ctx)

	prio := priority.NewLinux()
	nextWorkerID := 0
	spawn := func(ctx context.Context, slotIndex int, done chan<- struct{}) error {
		nextWorkerID++
		w := &worker.Worker{
			ID:        nextWorkerID,
			SlotIndex: slotIndex,
			Queue:     q,
			State:     state,
			Priority:  prio,
			Action:    action,
			Done:      done,
		}
		go w.Run(ctx)
		return nil
	}

	sup := supervisor.New(state, spawn)
	if err := sup.Bootstrap(ctx); err != nil {
		klog.ErrorS(err, "fatal-bootstrap: supervisor bootstrap failed")
		os.Exit(1)
	}

	go func() {
		if err := sup.Run(ctx); err != nil {
			klog.ErrorS(err, "fatal-degraded: autoscaling supervisor exited")
		}
	}()

	statusRec := &statusreconciler.Reconciler{RTResources: rtClient, Pods: kubeClient}
	go statusRec.Run(ctx)

	klog.InfoS(fmt.Sprintf("rtresource-controller running, min=%d max=%d threshold=%d", cfg.MinWatchdogs, cfg.MaxWatchdogs, cfg.Threshold))
	<-ctx.Done()
	klog.InfoS("shutting down")
}
