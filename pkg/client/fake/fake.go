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

// Package fake is an in-memory RTResource client used by tests, in the
// spirit of k8s.io/client-go/kubernetes/fake but hand-rolled for the
// single RTResource kind.
package fake

import (
	"context"
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"

	rtv1 "rtcritical/rtresource-controller/pkg/apis/rtgroup/v1"
	rtclient "rtcritical/rtresource-controller/pkg/client"
)

// Clientset is an in-memory Interface implementation.
type Clientset struct {
	mu      sync.Mutex
	objects map[string]*rtv1.RTResource // key: namespace/name
	watcher *watch.FakeWatcher
}

var _ rtclient.Interface = &Clientset{}

// NewSimpleClientset builds a fake clientset pre-populated with objects.
func NewSimpleClientset(initial ...*rtv1.RTResource) *Clientset {
	c := &Clientset{
		objects: make(map[string]*rtv1.RTResource),
		watcher: watch.NewFakeWithChanSize(100, false),
	}
	for _, obj := range initial {
		c.objects[key(obj.Namespace, obj.Name)] = obj.DeepCopy()
	}
	return c
}

func key(ns, name string) string { return ns + "/" + name }

// RTResources returns the namespaced sub-client.
func (c *Clientset) RTResources(namespace string) rtclient.RTResourceInterface {
	return &fakeRTResources{parent: c, ns: namespace}
}

type fakeRTResources struct {
	parent *Clientset
	ns     string
}

func (f *fakeRTResources) Get(_ context.Context, name string, _ metav1.GetOptions) (*rtv1.RTResource, error) {
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()
	obj, ok := f.parent.objects[key(f.ns, name)]
	if !ok {
		return nil, apierrors.NewNotFound(schema.GroupResource{Group: rtv1.GroupName, Resource: "rtresources"}, name)
	}
	return obj.DeepCopy(), nil
}

func (f *fakeRTResources) List(_ context.Context, opts metav1.ListOptions) (*rtv1.RTResourceList, error) {
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()

	var sel labels.Selector
	var err error
	if opts.LabelSelector != "" {
		sel, err = labels.Parse(opts.LabelSelector)
		if err != nil {
			return nil, err
		}
	}

	list := &rtv1.RTResourceList{}
	for _, obj := range f.parent.objects {
		if f.ns != "" && obj.Namespace != f.ns {
			continue
		}
		if sel != nil && !sel.Matches(labels.Set(obj.Labels)) {
			continue
		}
		list.Items = append(list.Items, *obj.DeepCopy())
	}
	return list, nil
}

func (f *fakeRTResources) Create(_ context.Context, obj *rtv1.RTResource, _ metav1.CreateOptions) (*rtv1.RTResource, error) {
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()
	stored := obj.DeepCopy()
	f.parent.objects[key(f.ns, obj.Name)] = stored
	f.parent.watcher.Add(stored)
	return stored.DeepCopy(), nil
}

func (f *fakeRTResources) Delete(_ context.Context, name string, _ metav1.DeleteOptions) error {
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()
	k := key(f.ns, name)
	obj, ok := f.parent.objects[k]
	if !ok {
		return apierrors.NewNotFound(schema.GroupResource{Group: rtv1.GroupName, Resource: "rtresources"}, name)
	}
	delete(f.parent.objects, k)
	f.parent.watcher.Delete(obj)
	return nil
}

func (f *fakeRTResources) UpdateStatus(_ context.Context, obj *rtv1.RTResource, _ metav1.UpdateOptions) (*rtv1.RTResource, error) {
	f.parent.mu.Lock()
	defer f.parent.mu.Unlock()
	k := key(f.ns, obj.Name)
	existing, ok := f.parent.objects[k]
	if !ok {
		return nil, apierrors.NewNotFound(schema.GroupResource{Group: rtv1.GroupName, Resource: "rtresources"}, obj.Name)
	}
	existing.Status = *obj.Status.DeepCopy()
	f.parent.objects[k] = existing
	f.parent.watcher.Modify(existing)
	return existing.DeepCopy(), nil
}

func (f *fakeRTResources) Watch(_ context.Context, _ metav1.ListOptions) (watch.Interface, error) {
	return f.parent.watcher, nil
}
